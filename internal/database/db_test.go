package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolDefaults(t *testing.T) {
	p := Pool{}.withDefaults()
	assert.Equal(t, defaultMaxOpenConns, p.MaxOpenConns)
	assert.Equal(t, defaultMaxIdleConns, p.MaxIdleConns)
	assert.Equal(t, defaultConnMaxLifetime, p.ConnMaxLifetime)
}

func TestPoolIdleNeverExceedsOpen(t *testing.T) {
	p := Pool{MaxOpenConns: 5, MaxIdleConns: 50, ConnMaxLifetime: time.Minute}.withDefaults()
	assert.Equal(t, 5, p.MaxOpenConns)
	assert.Equal(t, 5, p.MaxIdleConns)
}

func TestPoolExplicitValuesKept(t *testing.T) {
	p := Pool{MaxOpenConns: 10, MaxIdleConns: 4, ConnMaxLifetime: time.Hour}.withDefaults()
	assert.Equal(t, 10, p.MaxOpenConns)
	assert.Equal(t, 4, p.MaxIdleConns)
	assert.Equal(t, time.Hour, p.ConnMaxLifetime)
}
