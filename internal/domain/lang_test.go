package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequal/codequal/internal/domain"
)

func TestParseLanguage(t *testing.T) {
	l, err := domain.ParseLanguage("")
	require.NoError(t, err)
	assert.Equal(t, domain.LanguagePython, l)

	l, err = domain.ParseLanguage("Go")
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageGo, l)

	_, err = domain.ParseLanguage("cobol")
	assert.Error(t, err)
}

func TestLanguage_Helpers(t *testing.T) {
	assert.Equal(t, ".py", domain.LanguagePython.Extension())
	assert.Equal(t, ".go", domain.LanguageGo.Extension())

	assert.True(t, domain.LanguagePython.IsComment("    # note"))
	assert.False(t, domain.LanguagePython.IsComment("x = 1  # note"))
	assert.True(t, domain.LanguageGo.IsComment("\t// note"))

	assert.True(t, domain.LanguagePython.IsPrivate("_helper"))
	assert.False(t, domain.LanguagePython.IsPrivate("helper"))
	assert.True(t, domain.LanguageGo.IsPrivate("helper"))
	assert.False(t, domain.LanguageGo.IsPrivate("Helper"))
}
