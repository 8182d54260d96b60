package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{Bucket: "dumps"}.Enabled())
	assert.True(t, Config{Bucket: "dumps", BaseEndpoint: "http://127.0.0.1:9000"}.Enabled())
}

func TestStorageKey(t *testing.T) {
	ts := time.Date(2026, 4, 2, 15, 4, 5, 0, time.UTC)
	key := storageKey("/mnt/usb/eventsync_7_20260402150405.aes", ts)
	assert.Equal(t, "dumps/2026/04/02/eventsync_7_20260402150405.aes", key)
}
