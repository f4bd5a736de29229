package handler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitsCapacity(t *testing.T) {
	assert.True(t, fitsCapacity(0, 20, 1))
	assert.True(t, fitsCapacity(15, 20, 5)) // exact fill
	assert.False(t, fitsCapacity(15, 20, 6))
	assert.False(t, fitsCapacity(20, 20, 1))
}

func TestFitsCapacityRejectsWrappingRequest(t *testing.T) {
	// 5 + 4294967295 wraps to 4 in uint32; the 64-bit sum must still
	// reject the request.
	assert.False(t, fitsCapacity(5, 20, math.MaxUint32))
	assert.False(t, fitsCapacity(math.MaxUint32, 20, math.MaxUint32))
}
