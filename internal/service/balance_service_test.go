package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitogram/internal/apperror"
	"github.com/mmynk/splitogram/pkg/api"
)

func TestGetBalances(t *testing.T) {
	env := setupTestServer(t)
	group := env.newGroup(t, "Trip", "alice", "bob", "carol")

	env.addExpense(t, group.ID, "alice", 30_000_000, "alice", "bob", "carol")
	env.addExpense(t, group.ID, "bob", 6_000_000, "bob", "carol")

	resp, err := env.balances.GetBalances(context.Background(), as(env.token(t, "carol"), &api.GetBalancesRequest{
		GroupID: group.ID,
	}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}

	want := map[string]int64{
		"alice": 20_000_000,
		"bob":   -7_000_000,
		"carol": -13_000_000,
	}
	if len(resp.Msg.Balances) != len(want) {
		t.Fatalf("balances: expected %d, got %d", len(want), len(resp.Msg.Balances))
	}
	var sum int64
	for _, b := range resp.Msg.Balances {
		if b.Net != want[b.UserID] {
			t.Errorf("%s net: expected %d, got %d", b.UserID, want[b.UserID], b.Net)
		}
		if b.DisplayName != b.UserID {
			t.Errorf("%s display name: got %q", b.UserID, b.DisplayName)
		}
		sum += b.Net
	}
	if sum != 0 {
		t.Errorf("balances must sum to zero, got %d", sum)
	}

	if len(resp.Msg.Debts) != 2 {
		t.Fatalf("debts: expected 2, got %d", len(resp.Msg.Debts))
	}
	owed := map[string]int64{}
	for _, d := range resp.Msg.Debts {
		if d.To.UserID != "alice" {
			t.Errorf("debt to %s: only alice is owed", d.To.UserID)
		}
		owed[d.From.UserID] = d.Amount
	}
	if owed["carol"] != 13_000_000 || owed["bob"] != 7_000_000 {
		t.Errorf("debts: expected carol 13000000 and bob 7000000, got %v", owed)
	}
}

func TestGetMyBalance(t *testing.T) {
	env := setupTestServer(t)
	group := env.newGroup(t, "Trip", "alice", "bob", "carol")
	env.addExpense(t, group.ID, "alice", 30_000_000, "alice", "bob", "carol")

	resp, err := env.balances.GetMyBalance(context.Background(), as(env.token(t, "bob"), &api.GetMyBalanceRequest{
		GroupID: group.ID,
	}))
	if err != nil {
		t.Fatalf("GetMyBalance failed: %v", err)
	}
	if resp.Msg.NetBalance != -10_000_000 {
		t.Errorf("net: expected -10000000, got %d", resp.Msg.NetBalance)
	}
	if len(resp.Msg.IOwe) != 1 || resp.Msg.IOwe[0].To.UserID != "alice" || resp.Msg.IOwe[0].Amount != 10_000_000 {
		t.Errorf("iOwe: expected 10000000 to alice, got %+v", resp.Msg.IOwe)
	}
	if len(resp.Msg.OwedToMe) != 0 {
		t.Errorf("owedToMe: expected none, got %+v", resp.Msg.OwedToMe)
	}

	resp, err = env.balances.GetMyBalance(context.Background(), as(env.token(t, "alice"), &api.GetMyBalanceRequest{
		GroupID: group.ID,
	}))
	if err != nil {
		t.Fatalf("GetMyBalance failed: %v", err)
	}
	if len(resp.Msg.OwedToMe) != 2 || len(resp.Msg.IOwe) != 0 {
		t.Errorf("alice: expected 2 debts owed to her and none owed, got %d and %d",
			len(resp.Msg.OwedToMe), len(resp.Msg.IOwe))
	}
}

func TestGetBalances_NotMember(t *testing.T) {
	env := setupTestServer(t)
	group := env.newGroup(t, "Trip", "alice")

	_, err := env.balances.GetBalances(context.Background(), as(env.token(t, "mallory"), &api.GetBalancesRequest{
		GroupID: group.ID,
	}))
	assertError(t, err, connect.CodePermissionDenied, apperror.KindNotMember)
}
