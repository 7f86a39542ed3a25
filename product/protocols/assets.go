package protocols

import (
	"context"

	"github.com/giovaniif/fusion-store/product/domain/product"
)

type Asset struct {
	FileName string
	Folder   string
	Content  []byte
}

type AssetUploader interface {
	Upload(ctx context.Context, asset Asset) (product.Image, error)
}
