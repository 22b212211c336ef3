// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClient(t *testing.T) {
	t.Run("nil client gets a new one with the timeout", func(t *testing.T) {
		c := Client(nil, 3*time.Second)
		assert.NotNil(t, c)
		assert.Equal(t, 3*time.Second, c.Timeout)
	})

	t.Run("existing timeout is preserved", func(t *testing.T) {
		orig := &http.Client{Timeout: time.Second}
		c := Client(orig, 10*time.Second)
		assert.Same(t, orig, c)
		assert.Equal(t, time.Second, c.Timeout)
	})

	t.Run("zero-timeout client is cloned with the deadline", func(t *testing.T) {
		orig := &http.Client{}
		c := Client(orig, 7*time.Second)
		assert.NotSame(t, orig, c)
		assert.Equal(t, 7*time.Second, c.Timeout)
		assert.Equal(t, time.Duration(0), orig.Timeout)
	})

	t.Run("zero timeout leaves client untouched", func(t *testing.T) {
		orig := &http.Client{}
		c := Client(orig, 0)
		assert.Same(t, orig, c)
	})
}
