package email

import (
	"context"
	"errors"
	"testing"
)

func TestResendSender_Params(t *testing.T) {
	s := NewResendSender("re_test", "Hotel <recepce@hotel.cz>")

	p, err := s.params(SendRequest{To: []string{"guest@example.com"}, Subject: "Re: dotaz", HTML: "<p>x</p>", Text: "x"})
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if p.From != "Hotel <recepce@hotel.cz>" {
		t.Errorf("From = %q, want default", p.From)
	}
	if p.Text != "x" || p.Html != "<p>x</p>" || p.ReplyTo != "" {
		t.Errorf("unexpected params %+v", p)
	}

	p, _ = s.params(SendRequest{To: []string{"a@b.cz"}, From: "Other <o@b.cz>", ReplyTo: "r@b.cz"})
	if p.From != "Other <o@b.cz>" || p.ReplyTo != "r@b.cz" {
		t.Errorf("override not applied: %+v", p)
	}

	if _, err := s.Send(context.Background(), SendRequest{Subject: "x"}); !errors.Is(err, ErrNoRecipient) {
		t.Errorf("Send without recipient err = %v, want ErrNoRecipient", err)
	}
}

func TestNoopSender_RecordsSends(t *testing.T) {
	s := NewNoopSender()
	r1, err := s.Send(context.Background(), SendRequest{To: []string{"a@b.cz"}, Subject: "one"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	r2, _ := s.Send(context.Background(), SendRequest{To: []string{"a@b.cz"}, Subject: "two"})
	if r1.MessageID == r2.MessageID {
		t.Error("message ids should differ")
	}
	sent := s.Sent()
	if len(sent) != 2 || sent[1].Subject != "two" {
		t.Errorf("Sent = %+v", sent)
	}
}
