package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStudyGroupRepository(t *testing.T) {
	db := &Connection{}
	repo := NewStudyGroupRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}
