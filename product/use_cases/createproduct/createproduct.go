package createproduct

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/product/domain/product"
	"github.com/giovaniif/fusion-store/product/protocols"
	"github.com/giovaniif/fusion-store/product/use_cases/notify"
)

const ImageFolder = "/products"

type CreateProduct struct {
	repository product.Repository
	uploader   protocols.AssetUploader
	notifier   *notify.Notifier
}

func NewCreateProduct(repository product.Repository, uploader protocols.AssetUploader, notifier *notify.Notifier) *CreateProduct {
	return &CreateProduct{
		repository: repository,
		uploader:   uploader,
		notifier:   notifier,
	}
}

// CreateProduct validates every field before touching the asset store, so a
// rejected request never uploads anything.
func (c *CreateProduct) CreateProduct(ctx context.Context, input Input) (*product.Product, error) {
	if len(input.Images) > product.MaxImages {
		return nil, infra.NewValidationError(fmt.Sprintf("Maximum %d images allowed", product.MaxImages))
	}

	var fieldErrors []product.FieldError
	title, fieldErr := product.ValidateTitle(input.Title, true)
	if fieldErr != nil {
		fieldErrors = append(fieldErrors, *fieldErr)
	}
	description, fieldErr := product.ValidateDescription(input.Description)
	if fieldErr != nil {
		fieldErrors = append(fieldErrors, *fieldErr)
	}
	if len(fieldErrors) > 0 {
		return nil, infra.NewValidationError("Validation failed", fieldErrors)
	}

	price, err := product.ParsePrice(input.Price)
	if err != nil {
		return nil, infra.NewValidationError(err.Error())
	}

	seller := input.CallerId
	if seller == "" {
		seller = strings.TrimSpace(input.Seller)
	}
	if !product.IsValidId(seller) {
		return nil, infra.NewValidationError("Invalid seller id")
	}

	stock, err := parseStock(input.Stock)
	if err != nil {
		return nil, err
	}

	images, err := c.upload(ctx, input.Images)
	if err != nil {
		return nil, err
	}

	created, err := c.repository.Create(ctx, &product.Product{
		Title:       title,
		Description: description,
		Price:       price,
		Seller:      seller,
		Images:      images,
		Stock:       stock,
	})
	if err != nil {
		return nil, err
	}
	c.notifier.Notify(ctx, protocols.EventProductCreated, created, 0)
	return created, nil
}

func (c *CreateProduct) upload(ctx context.Context, assets []protocols.Asset) ([]product.Image, error) {
	images := make([]product.Image, len(assets))
	g, gctx := errgroup.WithContext(ctx)
	for i, asset := range assets {
		asset.Folder = ImageFolder
		g.Go(func() error {
			image, err := c.uploader.Upload(gctx, asset)
			if err != nil {
				return err
			}
			images[i] = image
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// parseStock accepts a missing stock as untracked.
func parseStock(raw any) (*int, error) {
	invalid := infra.NewValidationError("Stock must be a non-negative integer")
	var n int
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		parsed, err := strconv.Atoi(s)
		if err != nil {
			return nil, invalid
		}
		n = parsed
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, invalid
		}
		n = int(v)
	case int:
		n = v
	default:
		return nil, invalid
	}
	if n < 0 {
		return nil, invalid
	}
	return &n, nil
}

type Input struct {
	CallerId    string
	Seller      string
	Title       *string
	Description *string
	Price       product.PriceFields
	Stock       any
	Images      []protocols.Asset
}
