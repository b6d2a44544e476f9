package pyparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchorlint/anchorlint/internal/pyast"
)

func TestParse_SimpleFunction(t *testing.T) {
	tree, err := Parse("sample.py", []byte("def greet(name):\n    return name\n"))
	require.NoError(t, err)
	require.Len(t, tree.Body, 1)

	fn, ok := tree.Body[0].(*pyast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "greet", fn.Name)
	require.Len(t, fn.Args, 1)
	assert.Equal(t, "name", fn.Args[0].Name)
	require.Len(t, fn.Body, 1)
	_, ok = fn.Body[0].(*pyast.Return)
	assert.True(t, ok)
}

func TestParse_FunctionDefaultArgument(t *testing.T) {
	tree, err := Parse("sample.py", []byte("def add(item, items=[]):\n    pass\n"))
	require.NoError(t, err)
	fn := tree.Body[0].(*pyast.FunctionDef)
	require.Len(t, fn.Args, 2)
	assert.Nil(t, fn.Args[0].Default)
	require.NotNil(t, fn.Args[1].Default)
	_, ok := fn.Args[1].Default.(*pyast.List)
	assert.True(t, ok)
}

func TestParse_WithStatement(t *testing.T) {
	tree, err := Parse("sample.py", []byte("with open('f') as fh:\n    fh.read()\n"))
	require.NoError(t, err)
	w, ok := tree.Body[0].(*pyast.With)
	require.True(t, ok)
	require.Len(t, w.Items, 1)
	assert.NotNil(t, w.Items[0].ContextExpr)
	assert.NotNil(t, w.Items[0].OptionalVars)
}

func TestParse_TryExcept(t *testing.T) {
	tree, err := Parse("sample.py", []byte("try:\n    risky()\nexcept Exception:\n    pass\n"))
	require.NoError(t, err)
	tr, ok := tree.Body[0].(*pyast.Try)
	require.True(t, ok)
	require.Len(t, tr.Handlers, 1)
	assert.NotNil(t, tr.Handlers[0].Type)
}

func TestParse_LineNumbersAreOneBased(t *testing.T) {
	tree, err := Parse("sample.py", []byte("\n\ndef f():\n    pass\n"))
	require.NoError(t, err)
	fn := tree.Body[0].(*pyast.FunctionDef)
	assert.Equal(t, 3, fn.Line())
}

func TestParse_EmptyModule(t *testing.T) {
	tree, err := Parse("sample.py", []byte(""))
	require.NoError(t, err)
	assert.Empty(t, tree.Body)
}
