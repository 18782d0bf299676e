package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/kaira_store/internal/utils"
)

func TestIsTooLarge(t *testing.T) {
	assert.False(t, isTooLarge(nil))
	assert.False(t, isTooLarge(errors.New("unexpected EOF")))

	assert.True(t, isTooLarge(utils.ErrRequestTooLarge))
	assert.True(t, isTooLarge(fmt.Errorf("bind: %w", &http.MaxBytesError{Limit: 8})))
	assert.True(t, isTooLarge(errors.New("multipart: NextPart: "+tooLargeText)))
}

func TestIsTooLargeOnRealLimitedBody(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a="+strings.Repeat("x", 64)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Body = http.MaxBytesReader(w, req.Body, 16)

	err := req.ParseForm()
	assert.Error(t, err)
	assert.True(t, isTooLarge(err))

	var mbe *http.MaxBytesError
	assert.True(t, errors.As(err, &mbe), "limit error should be reachable with errors.As")
}
