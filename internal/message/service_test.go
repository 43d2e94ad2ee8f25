package message_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jamesprial/discord-rest-mcp/internal/discord"
	"github.com/jamesprial/discord-rest-mcp/internal/message"
	"github.com/jamesprial/discord-rest-mcp/internal/testutil"
)

func newService(t *testing.T) (*message.Service, *testutil.Upstream) {
	t.Helper()
	up := testutil.NewUpstream(t)
	return message.NewService(up.Client(t), slog.New(slog.NewTextHandler(io.Discard, nil))), up
}

func Test_Send_EndToEnd(t *testing.T) {
	t.Parallel()
	svc, up := newService(t)
	up.Respond(http.StatusOK, `{"id":"999"}`)

	got, err := svc.Send(context.Background(), message.SendInput{ChannelID: "123456789012345678", Content: "hi"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	want := message.SendOutput{MessageID: "999", ChannelID: "123456789012345678"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Send() mismatch (-want +got):\n%s", diff)
	}

	call := up.LastCall(t)
	if call.Method != http.MethodPost || call.Path != "/api/v10/channels/123456789012345678/messages" {
		t.Errorf("request = %s %s", call.Method, call.Path)
	}
	if diff := cmp.Diff(map[string]any{"content": "hi"}, call.JSON(t)); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
}

func Test_Send_MissingIDDefaultsEmpty(t *testing.T) {
	t.Parallel()
	svc, up := newService(t)
	up.Respond(http.StatusOK, `{}`)

	got, err := svc.Send(context.Background(), message.SendInput{ChannelID: testutil.ChannelID, Content: "hi"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got.MessageID != "" {
		t.Errorf("MessageID = %q, want empty", got.MessageID)
	}
}

func Test_Edit_Valid(t *testing.T) {
	t.Parallel()
	svc, up := newService(t)

	got, err := svc.Edit(context.Background(), message.EditInput{
		ChannelID: testutil.ChannelID,
		MessageID: testutil.MessageID,
		Content:   "edited",
	})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if diff := cmp.Diff(message.EditOutput{MessageID: testutil.MessageID, Updated: true}, got); diff != "" {
		t.Errorf("Edit() mismatch (-want +got):\n%s", diff)
	}
	call := up.LastCall(t)
	if call.Method != http.MethodPatch {
		t.Errorf("method = %s, want PATCH", call.Method)
	}
	if call.JSON(t)["content"] != "edited" {
		t.Errorf("body = %s", call.Body)
	}
}

func Test_Delete_NoContent(t *testing.T) {
	t.Parallel()
	svc, up := newService(t)

	got, err := svc.Delete(context.Background(), message.DeleteInput{ChannelID: testutil.ChannelID, MessageID: testutil.MessageID})
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !got.Deleted {
		t.Error("Deleted = false, want true")
	}
	call := up.LastCall(t)
	want := "/api/v10/channels/" + testutil.ChannelID + "/messages/" + testutil.MessageID
	if call.Method != http.MethodDelete || call.Path != want {
		t.Errorf("request = %s %s, want DELETE %s", call.Method, call.Path, want)
	}
}

func Test_Operations_InvalidIDMakesNoCall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		run       func(*message.Service) error
		wantField string
	}{
		{
			name: "send bad channel",
			run: func(s *message.Service) error {
				_, err := s.Send(context.Background(), message.SendInput{ChannelID: "abc", Content: "hi"})
				return err
			},
			wantField: "channel_id",
		},
		{
			name: "edit short message id",
			run: func(s *message.Service) error {
				_, err := s.Edit(context.Background(), message.EditInput{ChannelID: testutil.ChannelID, MessageID: "1234"})
				return err
			},
			wantField: "message_id",
		},
		{
			name: "delete checks channel first",
			run: func(s *message.Service) error {
				_, err := s.Delete(context.Background(), message.DeleteInput{ChannelID: "", MessageID: "x"})
				return err
			},
			wantField: "channel_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, up := newService(t)

			err := tt.run(svc)
			var ve *discord.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
			if n := up.CallCount(); n != 0 {
				t.Errorf("upstream saw %d requests, want 0", n)
			}
		})
	}
}

func Test_Operations_UpstreamForbidden(t *testing.T) {
	t.Parallel()
	svc, up := newService(t)
	up.Respond(http.StatusForbidden, "Missing Permissions")

	_, err := svc.Send(context.Background(), message.SendInput{ChannelID: testutil.ChannelID, Content: "hi"})
	var ue *discord.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UpstreamError", err)
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "Missing Permissions") {
		t.Errorf("error = %q, want status and body", err.Error())
	}
}
