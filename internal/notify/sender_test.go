package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramSender(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if got.ChatID == 0 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
			return
		}
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	sender := NewTelegramSender(srv.URL, "TOKEN", srv.Client())

	t.Run("with button", func(t *testing.T) {
		err := sender.Send(context.Background(), Message{
			ChatID: 42, Text: "hello", ButtonText: "View Group", ButtonURL: "https://app",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(42), got.ChatID)
		assert.Equal(t, "HTML", got.ParseMode)
		require.NotNil(t, got.ReplyMarkup)
		assert.Equal(t, "https://app", got.ReplyMarkup.InlineKeyboard[0][0].WebApp.URL)
	})

	t.Run("api error", func(t *testing.T) {
		err := sender.Send(context.Background(), Message{Text: "nobody"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat not found")
	})
}
