package updateproduct

import (
	"context"
	"encoding/json"

	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/product/domain/product"
	"github.com/giovaniif/fusion-store/product/protocols"
	"github.com/giovaniif/fusion-store/product/use_cases/getproduct"
	"github.com/giovaniif/fusion-store/product/use_cases/notify"
)

type UpdateProduct struct {
	repository product.Repository
	notifier   *notify.Notifier
}

func NewUpdateProduct(repository product.Repository, notifier *notify.Notifier) *UpdateProduct {
	return &UpdateProduct{repository: repository, notifier: notifier}
}

func (u *UpdateProduct) UpdateProduct(ctx context.Context, input Input) (*product.Product, error) {
	existing, err := getproduct.Find(ctx, u.repository, input.Id)
	if err != nil {
		return nil, err
	}
	if !existing.ManageableBy(input.CallerId, input.CallerIsAdmin) {
		return nil, infra.NewForbiddenError("Forbidden: not the owner of this product")
	}

	update, err := parseUpdate(input.Fields)
	if err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return nil, infra.NewValidationError("No valid fields to update")
	}

	updated, err := u.repository.Update(ctx, input.Id, update)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, infra.NewNotFoundError("Product not found")
	}
	u.notifier.Notify(ctx, protocols.EventProductUpdated, updated, 0)
	return updated, nil
}

// parseUpdate keeps only the mutable fields. Price sub-fields are applied
// independently, from a price object, a JSON price string or flat fields.
func parseUpdate(fields map[string]any) (product.Update, error) {
	var update product.Update
	var fieldErrors []product.FieldError

	if raw, ok := fields["title"]; ok {
		title, isString := raw.(string)
		if !isString {
			fieldErrors = append(fieldErrors, product.FieldError{Field: "title", Message: "Title must be a string", Value: raw})
		} else if trimmed, fieldErr := product.ValidateTitle(&title, false); fieldErr != nil {
			fieldErrors = append(fieldErrors, *fieldErr)
		} else {
			update.Title = &trimmed
		}
	}
	if raw, ok := fields["description"]; ok {
		description, isString := raw.(string)
		if !isString {
			fieldErrors = append(fieldErrors, product.FieldError{Field: "description", Message: "Description must be a string", Value: raw})
		} else if trimmed, fieldErr := product.ValidateDescription(&description); fieldErr != nil {
			fieldErrors = append(fieldErrors, *fieldErr)
		} else {
			update.Description = &trimmed
		}
	}
	if len(fieldErrors) > 0 {
		return product.Update{}, infra.NewValidationError("Validation failed", fieldErrors)
	}

	rawAmount, hasAmount := fields["priceAmount"]
	rawCurrency, hasCurrency := fields["priceCurrency"]
	if rawPrice, ok := fields["price"]; ok && rawPrice != nil {
		price, err := priceObject(rawPrice)
		if err != nil {
			return product.Update{}, err
		}
		if v, ok := price["amount"]; ok {
			rawAmount, hasAmount = v, true
		}
		if v, ok := price["currency"]; ok {
			rawCurrency, hasCurrency = v, true
		}
	}
	if hasAmount {
		amount, err := product.ParseAmount(rawAmount)
		if err != nil {
			return product.Update{}, infra.NewValidationError(err.Error())
		}
		update.Amount = &amount
	}
	if hasCurrency {
		currency, err := product.ParseCurrency(rawCurrency)
		if err != nil {
			return product.Update{}, infra.NewValidationError(err.Error())
		}
		update.Currency = &currency
	}
	return update, nil
}

func priceObject(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case string:
		var parsed map[string]any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil || parsed == nil {
			return nil, infra.NewValidationError(product.ErrInvalidPriceFormat.Error())
		}
		return parsed, nil
	}
	return nil, infra.NewValidationError(product.ErrInvalidPriceFormat.Error())
}

type Input struct {
	Id            string
	CallerId      string
	CallerIsAdmin bool
	Fields        map[string]any
}
