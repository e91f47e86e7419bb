package model_test

import (
	"testing"

	"redecell/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, model.POStatusPartiallyReceived, model.StatusFor(10, 0))
	assert.Equal(t, model.POStatusPartiallyReceived, model.StatusFor(10, 9))
	assert.Equal(t, model.POStatusReceived, model.StatusFor(10, 10))
}

func TestCashSessionIsOpen(t *testing.T) {
	s := &model.CashSession{}
	assert.True(t, s.IsOpen())
}
