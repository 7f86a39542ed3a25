package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/product/domain/product"
	"github.com/giovaniif/fusion-store/product/protocols"
)

var ErrUploadsDisabled = errors.New("image uploads are not configured")

// ImageKitGatewayHttp uploads product images through the ImageKit upload API.
type ImageKitGatewayHttp struct {
	httpClient *http.Client
	uploadURL  string
	privateKey string
}

func NewImageKitGatewayHttp(httpClient *http.Client, uploadURL, privateKey string) *ImageKitGatewayHttp {
	return &ImageKitGatewayHttp{
		httpClient: httpClient,
		uploadURL:  uploadURL,
		privateKey: privateKey,
	}
}

type uploadResponse struct {
	FileId       string `json:"fileId"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

func (g *ImageKitGatewayHttp) Upload(ctx context.Context, asset protocols.Asset) (product.Image, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", asset.FileName)
	if err != nil {
		return product.Image{}, err
	}
	if _, err := part.Write(asset.Content); err != nil {
		return product.Image{}, err
	}
	fields := map[string]string{
		"fileName":          asset.FileName,
		"folder":            asset.Folder,
		"useUniqueFileName": "true",
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return product.Image{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return product.Image{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.uploadURL, body)
	if err != nil {
		return product.Image{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBasicAuth(g.privateKey, "")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return product.Image{}, infra.NewInternalError("Image upload failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return product.Image{}, infra.NewInternalError("Image upload failed",
			fmt.Errorf("imagekit status %d: %s", resp.StatusCode, bytes.TrimSpace(raw)))
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return product.Image{}, infra.NewInternalError("Image upload failed", err)
	}
	image := product.Image{URL: out.URL, Thumbnail: out.ThumbnailURL, Id: out.FileId}
	if image.Thumbnail == "" {
		image.Thumbnail = image.URL
	}
	return image, nil
}

// DisabledUploader rejects every upload. Used when no ImageKit key is configured.
type DisabledUploader struct{}

func (DisabledUploader) Upload(context.Context, protocols.Asset) (product.Image, error) {
	return product.Image{}, infra.NewInternalError("Image upload failed", ErrUploadsDisabled)
}
