package render

import (
	"strings"
	"testing"

	"github.com/ormasoftchile/casetmpl/pkg/schema"
)

func settingsSnapshot() *schema.Snapshot {
	return &schema.Snapshot{
		Case: &schema.Case{ID: "C-1"},
		Settings: &schema.Settings{
			Operator: schema.Operator{
				NameWithKana: "山田 太郎（やまだ たろう）",
				Kana:         "やまだ たろう",
				FamilyName:   "山田",
				Email:        "taro@example.co.jp",
				Title:        "担当",
				Extension:    "5678",
			},
			CoEditors: []schema.CoEditor{
				{Title: "リーダー", Kana: "すずき いちろう", FamilyName: "鈴木",
					Extension: "1234", Email: "ichiro@example.co.jp"},
				{Title: "バックアップ", Kana: "たなか じろう", FamilyName: "田中",
					Email: "jiro@example.co.jp"},
			},
			Mail: schema.MailList{
				To:    []string{"ichiro@example.co.jp", "customer@example.com"},
				Cc:    []string{"backup@example.co.jp", "audit@example.co.jp"},
				CcDfM: []string{"taro@example.co.jp", "ichiro@example.co.jp", "jiro@example.co.jp"},
			},
		},
	}
}

func TestSettingsDerived_MailLists(t *testing.T) {
	e := New(nil)
	snap := settingsSnapshot()

	if got := e.Resolve("{{mailTo}}", snap); got != "ichiro@example.co.jp, customer@example.com" {
		t.Errorf("mailTo: got %q", got)
	}
	if got := e.Resolve("{{mailCc}}", snap); got != "backup@example.co.jp, audit@example.co.jp" {
		t.Errorf("mailCc: got %q", got)
	}
	if got := e.Resolve("{{dfmCc}}", snap); !strings.HasPrefix(got, "taro@example.co.jp, ") {
		t.Errorf("dfmCc: got %q", got)
	}
}

func TestSettingsDerived_OperatorIdentity(t *testing.T) {
	e := New(nil)
	snap := settingsSnapshot()

	if got := e.Resolve("{{nameWithKana}}", snap); got != "山田 太郎（やまだ たろう）" {
		t.Errorf("nameWithKana: got %q", got)
	}
	if got := e.Resolve("{{familyName}}", snap); got != "山田" {
		t.Errorf("familyName: got %q", got)
	}
	if got := e.Resolve("{{agentEmail}}", snap); got != "taro@example.co.jp" {
		t.Errorf("agentEmail: got %q", got)
	}
}

func TestSettingsDerived_MailToNames(t *testing.T) {
	e := New(nil)
	snap := settingsSnapshot()

	// Only To addresses matching a co-editor contribute a name.
	if got := e.Resolve("{{mailToNames}}", snap); got != "鈴木さん" {
		t.Errorf("got %q", got)
	}

	snap.Settings.Mail.To = append(snap.Settings.Mail.To, "jiro@example.co.jp")
	if got := e.Resolve("{{mailToNames}}", snap); got != "鈴木さん、田中さん" {
		t.Errorf("got %q", got)
	}

	// No matches at all: fail open, the placeholder stays.
	snap.Settings.Mail.To = []string{"customer@example.com"}
	if got := e.Resolve("{{mailToNames}}", snap); got != "{{mailToNames}}" {
		t.Errorf("got %q, want placeholder left verbatim", got)
	}
}

func TestSettingsDerived_AgentAndLeaders(t *testing.T) {
	e := New(nil)
	snap := settingsSnapshot()

	got := e.Resolve("{{agentAndLeaders}}", snap)
	lines := strings.Split(got, "\r\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), got)
	}
	if lines[0] != "【担当】やまだ たろう 内線番号 : 5678 E-Mail : taro@example.co.jp" {
		t.Errorf("operator line: %q", lines[0])
	}
	if lines[1] != "【リーダー】すずき いちろう 内線番号 : 1234 E-Mail : ichiro@example.co.jp" {
		t.Errorf("leader line: %q", lines[1])
	}
	// No extension: the segment is dropped entirely.
	if lines[2] != "【バックアップ】たなか じろう E-Mail : jiro@example.co.jp" {
		t.Errorf("no-extension line: %q", lines[2])
	}
}

func TestSettingsDerived_AgentAndLeadersFailsOpen(t *testing.T) {
	e := New(nil)
	snap := settingsSnapshot()
	snap.Settings.Mail.CcDfM = []string{"stranger@example.com"}

	if got := e.Resolve("{{agentAndLeaders}}", snap); got != "{{agentAndLeaders}}" {
		t.Errorf("got %q, want placeholder left verbatim", got)
	}
}

func TestSettingsRaw_Fallback(t *testing.T) {
	e := New(nil)
	snap := settingsSnapshot()
	snap.Settings.Extra = map[string]any{"escalationAlias": "esc-team@example.co.jp"}

	if got := e.Resolve("{{escalationAlias}}", snap); got != "esc-team@example.co.jp" {
		t.Errorf("got %q", got)
	}

	// A case field with the same name outranks the raw settings fallback.
	snap.Case.Fields = map[string]any{"escalationAlias": "case-override"}
	if got := e.Resolve("{{escalationAlias}}", snap); got != "case-override" {
		t.Errorf("got %q, want case field to win", got)
	}
}

func TestSettingsDerived_NilSettings(t *testing.T) {
	e := New(nil)
	snap := &schema.Snapshot{Case: &schema.Case{ID: "C-1"}}

	if got := e.Resolve("{{mailTo}}", snap); got != "{{mailTo}}" {
		t.Errorf("got %q, want placeholder left verbatim", got)
	}
}
