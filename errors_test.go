package sitezip_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sitezip/sitezip"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("application error", func(t *testing.T) {
		t.Parallel()
		err := sitezip.Errorf(sitezip.EINVALID, "bad request")
		assert.Equal(t, sitezip.EINVALID, sitezip.ErrorCode(err))
	})

	t.Run("wrapped application error", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("run failed: %w", sitezip.Errorf(sitezip.EUNAVAILABLE, "browser gone"))
		assert.Equal(t, sitezip.EUNAVAILABLE, sitezip.ErrorCode(err))
	})

	t.Run("non-application error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, sitezip.EINTERNAL, sitezip.ErrorCode(errors.New("boom")))
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", sitezip.ErrorCode(nil))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	err := sitezip.Errorf(sitezip.ENOTFOUND, "no documents for %q", "example.com")
	assert.Equal(t, `no documents for "example.com"`, sitezip.ErrorMessage(err))
	assert.Equal(t, "Internal error.", sitezip.ErrorMessage(errors.New("boom")))
}
