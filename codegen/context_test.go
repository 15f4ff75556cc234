package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kumeo-dev/kumeoc/ast"
)

func TestValueToNativeScalarsAndContainers(t *testing.T) {
	assert.Nil(t, valueToNative(nil))
	assert.Equal(t, "hi", valueToNative(&ast.Value{Kind: ast.KindString, Str: "hi"}))
	assert.Equal(t, 3.5, valueToNative(&ast.Value{Kind: ast.KindNumber, Num: 3.5}))
	assert.Equal(t, true, valueToNative(&ast.Value{Kind: ast.KindBoolean, Bool: true}))
	assert.Nil(t, valueToNative(&ast.Value{Kind: ast.KindNull}))
	assert.Equal(t, "a.b", valueToNative(&ast.Value{Kind: ast.KindPath, Path: []string{"a", "b"}}))

	arr := valueToNative(&ast.Value{Kind: ast.KindArray, Array: []*ast.Value{
		{Kind: ast.KindNumber, Num: 1},
		{Kind: ast.KindNumber, Num: 2},
	}})
	assert.Equal(t, []interface{}{1.0, 2.0}, arr)

	obj := valueToNative(&ast.Value{Kind: ast.KindObject, Object: []ast.ObjectEntry{
		{Key: "cpu", Value: &ast.Value{Kind: ast.KindString, Str: "500m"}},
	}})
	assert.Equal(t, map[string]interface{}{"cpu": "500m"}, obj)
}

func TestValueToNativeCall(t *testing.T) {
	v := &ast.Value{Kind: ast.KindCall, CallFn: "NATS", CallArg: []ast.Argument{
		{Value: &ast.Value{Kind: ast.KindString, Str: "orders"}},
		{Name: "durable", Value: &ast.Value{Kind: ast.KindBoolean, Bool: true}},
	}}
	out := valueToNative(v).(map[string]interface{})
	assert.Equal(t, "NATS", out["fn"])
	args := out["args"].(map[string]interface{})
	assert.Equal(t, "orders", args["arg0"])
	assert.Equal(t, true, args["durable"])
}

func TestItoa(t *testing.T) {
	assert.Equal(t, "0", itoa(0))
	assert.Equal(t, "7", itoa(7))
	assert.Equal(t, "42", itoa(42))
}
