package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"socialhub/internal/pkg/errs"
)

func TestValidateMediaUpload(t *testing.T) {
	require.NoError(t, ValidateMediaUpload("image/jpeg", 1024))
	require.NoError(t, ValidateMediaUpload("image/webp", MaxMediaBytes))

	err := ValidateMediaUpload("application/pdf", 1024)
	require.Error(t, err)

	var customErr *errs.CustomError
	require.ErrorAs(t, err, &customErr)
	require.Equal(t, errs.ErrUnsupportedMediaType, customErr.Code)

	require.Error(t, ValidateMediaUpload("image/png", 0))
	require.Error(t, ValidateMediaUpload("image/png", -5))
	require.Error(t, ValidateMediaUpload("image/png", MaxMediaBytes+1))
}
