package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/dmaxwell/rasterfx/internal/domain"
	"github.com/dmaxwell/rasterfx/internal/raster"
	"github.com/dmaxwell/rasterfx/internal/storage"
)

type ObjectStoreFetcher struct {
	Storage *storage.Client
}

func (f ObjectStoreFetcher) Fetch(ctx context.Context, req Request) (*raster.Buffer, int, error) {
	if f.Storage == nil {
		return nil, 0, errors.New("storage client is required")
	}
	if strings.EqualFold(req.SourceType, domain.SourceTypeLocalFile) {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedSourceType, req.SourceType)
	}

	data, err := f.Storage.ReadObject(ctx, req.ObjectKey)
	if err != nil {
		return nil, 0, err
	}

	buf, err := raster.Decode(data)
	if err != nil {
		return nil, 0, err
	}
	return buf, len(data), nil
}

type ObjectStoreEmitter struct {
	Storage      *storage.Client
	OutputPrefix string
}

func (e ObjectStoreEmitter) Emit(ctx context.Context, req Request, buf *raster.Buffer) (Output, error) {
	if e.Storage == nil {
		return Output{}, errors.New("storage client is required")
	}

	data, err := raster.EncodePNG(buf)
	if err != nil {
		return Output{}, err
	}

	objectKey := path.Join(
		defaultOutputPrefix(e.OutputPrefix),
		sanitizePathToken(req.JobID),
		"result.png",
	)

	if err := e.Storage.WriteObject(ctx, objectKey, data, "image/png"); err != nil {
		return Output{}, err
	}

	return Output{
		JobID:   req.JobID,
		Effect:  req.Effect,
		Format:  "png",
		Path:    objectKey,
		Bytes:   len(data),
		Width:   buf.Width,
		Height:  buf.Height,
		Success: true,
	}, nil
}

func defaultOutputPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "outputs"
	}
	return prefix
}
