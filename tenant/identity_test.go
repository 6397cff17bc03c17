package tenant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"canonical lowercase", "ededd6f3-d0d7-552b-8e97-698132712098", true},
		{"canonical uppercase", "EDEDD6F3-D0D7-552B-8E97-698132712098", true},
		{"not a uuid", "not-a-uuid", false},
		{"one character removed", "ededd6f3-d0d7-552b-8e97-69813271209", false},
		{"one character added", "ededd6f3-d0d7-552b-8e97-6981327120980", false},
		{"wrong separator", "ededd6f3_d0d7_552b_8e97_698132712098", false},
		{"missing separators", "ededd6f3d0d7552b8e97698132712098", false},
		{"non-hex character", "gdedd6f3-d0d7-552b-8e97-698132712098", false},
		{"urn prefix", "urn:uuid:ededd6f3-d0d7-552b-8e97-698132712098", false},
		{"braces", "{ededd6f3-d0d7-552b-8e97-698132712098}", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.value))
		})
	}
}

func TestDerive_Deterministic(t *testing.T) {
	// Hard-coded vectors pin the namespace constant and normalization rule.
	// If any of these change, existing users silently land on new tenants.
	tests := []struct {
		seed string
		want string
	}{
		{"user-42", "ededd6f3-d0d7-552b-8e97-698132712098"},
		{"acme corp", "c7083c89-70c2-5c07-abe0-52ca0f3a3202"},
		{"user-43", "e319dfb8-7d29-51b3-ad88-25fbbd88615f"},
		{"kratos|3f2c", "af749264-6799-5585-b5b2-185496aaa461"},
	}

	for _, tt := range tests {
		t.Run(tt.seed, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.seed))
		})
	}
}

func TestDerive_Normalization(t *testing.T) {
	// Trim and case-fold before hashing: all spellings of the same seed
	// collapse to one tenant.
	want := Derive("user-42")
	assert.Equal(t, want, Derive("USER-42"))
	assert.Equal(t, want, Derive("  user-42  "))
	assert.Equal(t, want, Derive("\tUser-42\n"))
}

func TestDerive_Idempotent(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, Derive("stable-seed"), Derive("stable-seed"))
	}
}

func TestDerive_PassThrough(t *testing.T) {
	valid := "ededd6f3-d0d7-552b-8e97-698132712098"
	assert.Equal(t, valid, Derive(valid))

	// Pass-through preserves the input byte-for-byte, uppercase included.
	upper := strings.ToUpper(valid)
	assert.Equal(t, upper, Derive(upper))
}

func TestDerive_SeedsDoNotCollide(t *testing.T) {
	assert.NotEqual(t, Derive("user-42"), Derive("user-43"))
}

func TestDerive_OutputIsValid(t *testing.T) {
	assert.True(t, IsValid(Derive("anything at all")))
}

func TestDeriveOrNew(t *testing.T) {
	t.Run("seed present derives deterministically", func(t *testing.T) {
		id, fellBack := DeriveOrNew("user-42")
		assert.False(t, fellBack)
		assert.Equal(t, "ededd6f3-d0d7-552b-8e97-698132712098", id)
	})

	t.Run("empty seed falls back to random", func(t *testing.T) {
		id1, fellBack1 := DeriveOrNew("")
		id2, fellBack2 := DeriveOrNew("   ")
		assert.True(t, fellBack1)
		assert.True(t, fellBack2)
		assert.True(t, IsValid(id1))
		assert.True(t, IsValid(id2))
		assert.NotEqual(t, id1, id2, "fallback identifiers are random")
	})
}

func TestStorageNamespace(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       string
	}{
		{
			"strips separators and truncates",
			"ededd6f3-d0d7-552b-8e97-698132712098",
			"tenant_ededd6f3d0d7552b8e976981",
		},
		{
			"lowercases",
			"EDEDD6F3-D0D7-552B-8E97-698132712098",
			"tenant_ededd6f3d0d7552b8e976981",
		},
		{
			"short input kept whole",
			"abc-def",
			"tenant_abcdef",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StorageNamespace(tt.identifier))
		})
	}
}
