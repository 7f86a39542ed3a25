package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/infra/respond"
	"github.com/giovaniif/fusion-store/product/domain/product"
	"github.com/giovaniif/fusion-store/product/infra/auth"
	"github.com/giovaniif/fusion-store/product/protocols"
	"github.com/giovaniif/fusion-store/product/use_cases/createproduct"
	"github.com/giovaniif/fusion-store/product/use_cases/deleteproduct"
	"github.com/giovaniif/fusion-store/product/use_cases/getproduct"
	"github.com/giovaniif/fusion-store/product/use_cases/listproducts"
	"github.com/giovaniif/fusion-store/product/use_cases/reservestock"
	"github.com/giovaniif/fusion-store/product/use_cases/sellerproducts"
	"github.com/giovaniif/fusion-store/product/use_cases/updateproduct"
)

const imagesField = "images"

type ReserveRequest struct {
	Quantity any `json:"quantity"`
}

type ReserveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type productHandlers struct {
	logger         *zap.Logger
	createProduct  *createproduct.CreateProduct
	listProducts   *listproducts.ListProducts
	getProduct     *getproduct.GetProduct
	updateProduct  *updateproduct.UpdateProduct
	deleteProduct  *deleteproduct.DeleteProduct
	sellerProducts *sellerproducts.SellerProducts
	reserveStock   *reservestock.ReserveStock
}

func (h *productHandlers) create(c *gin.Context) {
	var input createproduct.Input
	var err error
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		input, err = multipartInput(c)
	} else {
		input, err = jsonInput(c)
	}
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	if caller := auth.FromContext(c.Request.Context()); caller != nil {
		input.CallerId = caller.Id
	}

	created, err := h.createProduct.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "data": created})
}

func (h *productHandlers) list(c *gin.Context) {
	products, err := h.listProducts.ListProducts(c.Request.Context(), listproducts.Input{
		Query:    c.Query("q"),
		MinPrice: c.Query("minprice"),
		MaxPrice: c.Query("maxprice"),
		Skip:     c.Query("skip"),
		Limit:    c.Query("limit"),
	})
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

func (h *productHandlers) get(c *gin.Context) {
	p, err := h.getProduct.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *productHandlers) update(c *gin.Context) {
	fields := map[string]any{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		respond.Error(c, h.logger, infra.NewValidationError("Invalid JSON body"))
		return
	}
	callerId, isAdmin := callerFrom(c)
	updated, err := h.updateProduct.UpdateProduct(c.Request.Context(), updateproduct.Input{
		Id:            c.Param("id"),
		CallerId:      callerId,
		CallerIsAdmin: isAdmin,
		Fields:        fields,
	})
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

func (h *productHandlers) delete(c *gin.Context) {
	callerId, isAdmin := callerFrom(c)
	err := h.deleteProduct.DeleteProduct(c.Request.Context(), deleteproduct.Input{
		Id:            c.Param("id"),
		CallerId:      callerId,
		CallerIsAdmin: isAdmin,
	})
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}

func (h *productHandlers) seller(c *gin.Context) {
	callerId, _ := callerFrom(c)
	products, err := h.sellerProducts.SellerProducts(c.Request.Context(), sellerproducts.Input{
		Seller:   c.Query("seller"),
		CallerId: callerId,
		Skip:     c.Query("skip"),
		Limit:    c.Query("limit"),
	})
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

func (h *productHandlers) reserve(c *gin.Context) {
	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, h.logger, infra.NewValidationError("Invalid JSON body"))
		return
	}
	_, err := h.reserveStock.ReserveStock(c.Request.Context(), reservestock.Input{
		Id:       c.Param("id"),
		Quantity: req.Quantity,
	})
	var appErr *infra.Error
	if errors.As(err, &appErr) && appErr.Kind == infra.KindConflict {
		c.JSON(http.StatusConflict, ReserveResponse{Success: false, Message: appErr.Message})
		return
	}
	if err != nil {
		respond.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ReserveResponse{Success: true})
}

func callerFrom(c *gin.Context) (string, bool) {
	caller := auth.FromContext(c.Request.Context())
	if caller == nil {
		return "", false
	}
	return caller.Id, caller.IsAdmin()
}

func multipartInput(c *gin.Context) (createproduct.Input, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return createproduct.Input{}, infra.NewValidationError("Invalid multipart body")
	}
	value := func(key string) (string, bool) {
		values, ok := form.Value[key]
		if !ok || len(values) == 0 {
			return "", false
		}
		return values[0], true
	}

	input := createproduct.Input{}
	if title, ok := value("title"); ok {
		input.Title = &title
	}
	if description, ok := value("description"); ok {
		input.Description = &description
	}
	if price, ok := value("price"); ok {
		input.Price.Price = price
	}
	if amount, ok := value("priceAmount"); ok {
		input.Price.Amount = amount
	}
	if currency, ok := value("priceCurrency"); ok {
		input.Price.Currency = currency
	}
	input.Seller, _ = value("seller")
	if stock, ok := value("stock"); ok {
		input.Stock = stock
	}

	files := form.File[imagesField]
	if len(files) > product.MaxImages {
		return createproduct.Input{}, infra.NewValidationError("Maximum 5 images allowed")
	}
	for _, header := range files {
		content, err := readFile(header)
		if err != nil {
			return createproduct.Input{}, infra.NewValidationError("Invalid image upload")
		}
		input.Images = append(input.Images, protocols.Asset{FileName: header.Filename, Content: content})
	}
	return input, nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func jsonInput(c *gin.Context) (createproduct.Input, error) {
	body := map[string]any{}
	if err := c.ShouldBindJSON(&body); err != nil {
		return createproduct.Input{}, infra.NewValidationError("Invalid JSON body")
	}
	input := createproduct.Input{
		Title:       stringField(body, "title"),
		Description: stringField(body, "description"),
		Price: product.PriceFields{
			Price:    body["price"],
			Amount:   body["priceAmount"],
			Currency: body["priceCurrency"],
		},
		Stock: body["stock"],
	}
	if seller, ok := body["seller"].(string); ok {
		input.Seller = seller
	}
	return input, nil
}

// stringField returns nil when key is absent and an empty string when it holds
// a non-string value, which then fails validation.
func stringField(body map[string]any, key string) *string {
	raw, ok := body[key]
	if !ok || raw == nil {
		return nil
	}
	s, _ := raw.(string)
	return &s
}
