package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewResourceRepository(t *testing.T) {
	db := &Connection{}
	repo := NewResourceRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}
