package handler

import (
	"errors"
	"testing"

	"coursebot/internal/conversation"
	"coursebot/internal/messenger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMarkupFor(t *testing.T) {
	t.Run("reply keyboard", func(t *testing.T) {
		markup := markupFor(conversation.Message{
			Text:     "menu",
			Keyboard: [][]string{{"📚 Предметы", "ℹ️ Гарантии"}, {"🛒 Корзина"}},
		})
		require.NotNil(t, markup)
		assert.True(t, markup.ResizeKeyboard)
		require.Len(t, markup.ReplyKeyboard, 2)
		assert.Len(t, markup.ReplyKeyboard[0], 2)
		assert.Equal(t, "🛒 Корзина", markup.ReplyKeyboard[1][0].Text)
		assert.Empty(t, markup.InlineKeyboard)
	})

	t.Run("inline keyboard wins", func(t *testing.T) {
		markup := markupFor(conversation.Message{
			Text:     "card",
			Keyboard: [][]string{{"ignored"}},
			Inline:   [][]messenger.Button{{{Text: "✅ Готов", Data: "order-action:ready:1"}}},
		})
		require.NotNil(t, markup)
		require.Len(t, markup.InlineKeyboard, 1)
		assert.Equal(t, "✅ Готов", markup.InlineKeyboard[0][0].Text)
		assert.Empty(t, markup.ReplyKeyboard)
	})

	t.Run("no keyboard", func(t *testing.T) {
		assert.Nil(t, markupFor(conversation.Message{Text: "plain"}))
		assert.Nil(t, sendOptions(conversation.Message{Text: "plain"}))
	})
}

func TestHandleEditError(t *testing.T) {
	h := &Handler{logger: zap.NewNop()}

	assert.NoError(t, h.handleEditError(nil, h.logger))
	assert.NoError(t, h.handleEditError(errors.New("telegram: Bad Request: message is not modified (400)"), h.logger))

	err := errors.New("telegram: Bad Request: message to edit not found (400)")
	assert.Equal(t, err, h.handleEditError(err, h.logger))
}
