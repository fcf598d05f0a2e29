package controller

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/service"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"

	"github.com/gin-gonic/gin"
)

// caller returns the authenticated user or writes 401.
func caller(ctx *gin.Context) (*util.Claims, bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	return user, true
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := util.ParseID(name, ctx.Param(name))
	if err != nil {
		util.RespondError(ctx, err)
		return 0, false
	}
	return id, true
}

func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		util.RespondError(ctx, util.NewValidationError("invalid request body: "+err.Error()))
		return false
	}
	return true
}

func queryInt(ctx *gin.Context, name string, def int) (int, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		util.RespondError(ctx, util.NewValidationError("invalid query parameter",
			util.FieldError{Field: name, Error: "must be an integer"}))
		return 0, false
	}
	return v, true
}

// readUpload loads an optional multipart file. A missing file yields nil.
func readUpload(ctx *gin.Context, field string, maxBytes int64) (*service.FileUpload, error) {
	header, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, util.NewValidationError("invalid upload", util.FieldError{Field: field, Error: err.Error()})
	}

	f, err := header.Open()
	if err != nil {
		return nil, util.Storage("open upload", err)
	}
	defer f.Close()

	r := io.Reader(f)
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, util.Storage("read upload", err)
	}
	if err := util.ValidateUpload(header.Filename, bytes.NewReader(data), maxBytes, int64(len(data))); err != nil {
		return nil, err
	}
	return &service.FileUpload{Name: header.Filename, Data: data}, nil
}

// sendFile writes a stored file as an attachment; images are shown inline.
func sendFile(ctx *gin.Context, name string, data []byte) {
	contentType := http.DetectContentType(data)
	disposition := "attachment"
	if util.IsImage(contentType) {
		disposition = "inline"
	}
	ctx.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": name}))
	ctx.Data(http.StatusOK, contentType, data)
}
