package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitogram/internal/models"
)

// Directory resolves the names and chat ids a notification needs.
type Directory interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// Notifier turns domain events into queued chat messages. Every method
// returns immediately; lookups and enqueueing happen in the background.
type Notifier struct {
	dir      Directory
	queue    Queue
	pagesURL string
	timeout  time.Duration

	wg sync.WaitGroup
}

// NewNotifier creates a Notifier. pagesURL is the web app opened by the
// message button; empty disables the button.
func NewNotifier(dir Directory, queue Queue, pagesURL string) *Notifier {
	return &Notifier{
		dir:      dir,
		queue:    queue,
		pagesURL: pagesURL,
		timeout:  5 * time.Second,
	}
}

// ExpenseCreated tells every participant except the payer about a new expense.
func (n *Notifier) ExpenseCreated(expense *models.Expense) {
	e := *expense
	n.async("expense_created", e.GroupID, func(ctx context.Context, group *models.Group) ([]Message, error) {
		ids := []string{e.PaidBy}
		for _, s := range e.Shares {
			ids = append(ids, s.UserID)
		}
		users, err := n.dir.GetUsersByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}

		payer := users[e.PaidBy]
		if payer == nil {
			return nil, nil
		}

		text := fmt.Sprintf("<b>%s</b> added an expense in <b>%s</b>\n\"%s\" - %s",
			html.EscapeString(payer.DisplayName),
			html.EscapeString(group.Name),
			html.EscapeString(e.Description),
			FormatAmount(e.Amount),
		)

		var msgs []Message
		for _, s := range e.Shares {
			if s.UserID == e.PaidBy {
				continue
			}
			if u := users[s.UserID]; u != nil && u.TelegramID != 0 {
				msgs = append(msgs, n.message(u.TelegramID, text, "View Group"))
			}
		}
		return msgs, nil
	})
}

// SettlementCompleted tells both parties that a settlement was confirmed.
func (n *Notifier) SettlementCompleted(settlement *models.Settlement) {
	s := *settlement
	n.async("settlement_completed", s.GroupID, func(ctx context.Context, group *models.Group) ([]Message, error) {
		users, err := n.dir.GetUsersByIDs(ctx, []string{s.FromUserID, s.ToUserID})
		if err != nil {
			return nil, err
		}
		debtor, creditor := users[s.FromUserID], users[s.ToUserID]
		if debtor == nil || creditor == nil {
			return nil, nil
		}

		amount := FormatAmount(s.Amount)
		method := "externally"
		if s.Status == models.StatusSettledOnchain {
			method = "on-chain"
		}
		txInfo := ""
		if s.TxRef != "" {
			ref := s.TxRef
			if len(ref) > 16 {
				ref = ref[:16]
			}
			txInfo = fmt.Sprintf("\nTx: <code>%s...</code>", html.EscapeString(ref))
		}
		groupName := html.EscapeString(group.Name)

		var msgs []Message
		if creditor.TelegramID != 0 {
			msgs = append(msgs, n.message(creditor.TelegramID, fmt.Sprintf(
				"<b>%s</b> settled %s with you %s in <b>%s</b>%s",
				html.EscapeString(debtor.DisplayName), amount, method, groupName, txInfo,
			), "View Group"))
		}
		if debtor.TelegramID != 0 {
			msgs = append(msgs, n.message(debtor.TelegramID, fmt.Sprintf(
				"You settled %s with <b>%s</b> %s in <b>%s</b>%s",
				amount, html.EscapeString(creditor.DisplayName), method, groupName, txInfo,
			), "View Group"))
		}
		return msgs, nil
	})
}

// MemberJoined tells existing members that someone joined the group.
func (n *Notifier) MemberJoined(groupID, userID string) {
	n.async("member_joined", groupID, func(ctx context.Context, group *models.Group) ([]Message, error) {
		members, err := n.dir.ListMembers(ctx, groupID)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.UserID)
		}
		users, err := n.dir.GetUsersByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}

		newcomer := users[userID]
		if newcomer == nil {
			return nil, nil
		}
		text := fmt.Sprintf("<b>%s</b> joined <b>%s</b>",
			html.EscapeString(newcomer.DisplayName), html.EscapeString(group.Name))

		var msgs []Message
		for _, id := range ids {
			u := users[id]
			if id == userID || u == nil || u.TelegramID == 0 {
				continue
			}
			msgs = append(msgs, n.message(u.TelegramID, text, "Open Group"))
		}
		return msgs, nil
	})
}

// Wait blocks until all background work started so far has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) message(chatID int64, text, button string) Message {
	msg := Message{ChatID: chatID, Text: text}
	if n.pagesURL != "" {
		msg.ButtonText = button
		msg.ButtonURL = n.pagesURL
	}
	return msg
}

// async builds and enqueues messages on a detached, bounded context so the
// caller's request lifetime does not cut delivery short.
func (n *Notifier) async(event, groupID string, build func(ctx context.Context, group *models.Group) ([]Message, error)) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		group, err := n.dir.GetGroup(ctx, groupID)
		if err != nil {
			slog.Warn("Notification skipped", "event", event, "group_id", groupID, "error", err)
			return
		}

		msgs, err := build(ctx, group)
		if err != nil {
			slog.Warn("Notification skipped", "event", event, "group_id", groupID, "error", err)
			return
		}

		for _, msg := range msgs {
			if err := n.queue.Enqueue(ctx, msg); err != nil {
				slog.Warn("Notification dropped", "event", event, "chat_id", msg.ChatID, "error", err)
			}
		}
	}()
}

// FormatAmount renders micro-USDT as dollars with two decimals.
func FormatAmount(micro int64) string {
	return "$" + decimal.New(micro, -6).StringFixed(2)
}
