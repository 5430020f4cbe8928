package server

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/billbook/internal/common"
)

type upload struct {
	data        []byte
	filename    string
	contentType string
}

// readUpload reads the multipart "file" field, capped at the configured size.
func (a *API) readUpload(c *gin.Context) (*upload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, common.ValidationFailed("file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, common.WrapError(err, "open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, a.opts.MaxUploadBytes+1))
	if err != nil {
		return nil, common.WrapError(err, "read upload")
	}
	if int64(len(data)) > a.opts.MaxUploadBytes {
		return nil, common.ValidationFailedf("file exceeds %d MB", a.opts.MaxUploadBytes>>20)
	}
	return &upload{data: data, filename: fh.Filename, contentType: fh.Header.Get("Content-Type")}, nil
}
