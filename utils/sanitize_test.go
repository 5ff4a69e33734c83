package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello world", SanitizeInput("  hello world  "))
	assert.Equal(t, "task-tracker", SanitizeInput("task-tracker"))
	assert.Equal(t, "drop tables", SanitizeInput("drop tables;'\""))
}

func TestSanitizeFilePath(t *testing.T) {
	assert.Equal(t, "a/b/c.txt", SanitizeFilePath("a/b/c.txt"))
	assert.Equal(t, "a/c.txt", SanitizeFilePath("a/../c.txt"))
	assert.Equal(t, "etc/passwd", SanitizeFilePath("/etc/passwd"))
	assert.Equal(t, "a/b", SanitizeFilePath("./a/b"))
}

func TestIsValidAppName(t *testing.T) {
	assert.True(t, IsValidAppName("task-tracker"))
	assert.True(t, IsValidAppName("app_2"))
	assert.True(t, IsValidAppName("2cool"))
	assert.False(t, IsValidAppName(""))
	assert.False(t, IsValidAppName("-leading"))
	assert.False(t, IsValidAppName("has space"))
	assert.False(t, IsValidAppName("emoji✨"))
}

func TestFormatAppName(t *testing.T) {
	assert.Equal(t, "my-cool-app", FormatAppName("my cool app"))
	assert.Equal(t, "app-2fast", FormatAppName("2fast"))
	assert.Equal(t, "generated-app", FormatAppName("!!!"))
	assert.Equal(t, "already-fine", FormatAppName("already-fine"))
}

func TestToKebabCase(t *testing.T) {
	assert.Equal(t, "task", ToKebabCase("Task"))
	assert.Equal(t, "order-item", ToKebabCase("OrderItem"))
	assert.Equal(t, "http2-server", ToKebabCase("Http2Server"))
}

func TestKebabToPascalCase(t *testing.T) {
	assert.Equal(t, "Task", KebabToPascalCase("task"))
	assert.Equal(t, "OrderItem", KebabToPascalCase("order-item"))
	assert.Equal(t, "ItemList", KebabToPascalCase("item-list"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "a ver...", TruncateString("a very long string", 8))
}
