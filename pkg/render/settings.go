package render

import (
	"strings"

	"github.com/ormasoftchile/casetmpl/pkg/schema"
)

// lookupSettingsDerived serves the fixed set of computed settings keys.
// mailToNames and agentAndLeaders decline (fail open) when nothing matches,
// so a misconfigured mail list stays visible in the draft.
func (e *Engine) lookupSettingsDerived(key string, snap *schema.Snapshot) (string, bool) {
	s := snap.Settings
	if s == nil {
		return "", false
	}

	switch key {
	case "mailTo":
		return strings.Join(s.Mail.To, ", "), true
	case "mailCc":
		return strings.Join(s.Mail.Cc, ", "), true
	case "dfmCc":
		return strings.Join(s.Mail.CcDfM, ", "), true
	case "nameWithKana":
		return s.Operator.NameWithKana, true
	case "familyName":
		return s.Operator.FamilyName, true
	case "agentEmail":
		return s.Operator.Email, true

	case "mailToNames":
		var names []string
		for _, addr := range s.Mail.To {
			if ed := s.CoEditorByEmail(addr); ed != nil && ed.FamilyName != "" {
				names = append(names, ed.FamilyName+"さん")
			}
		}
		if len(names) == 0 {
			return "", false
		}
		return strings.Join(names, "、"), true

	case "agentAndLeaders":
		var lines []string
		for _, addr := range s.Mail.CcDfM {
			if addr != "" && addr == s.Operator.Email {
				lines = append(lines, contactLine(s.Operator.Title, s.Operator.KanaName(),
					s.Operator.Extension, s.Operator.Email))
			} else if ed := s.CoEditorByEmail(addr); ed != nil {
				lines = append(lines, contactLine(ed.Title, ed.Kana, ed.Extension, ed.Email))
			}
		}
		if len(lines) == 0 {
			return "", false
		}
		return strings.Join(lines, "\r\n"), true
	}

	return "", false
}

// contactLine formats one contact listing line. The extension segment is
// omitted when no extension number exists; the e-mail segment is always
// present.
func contactLine(title, kana, ext, email string) string {
	var b strings.Builder
	b.WriteString("【")
	b.WriteString(title)
	b.WriteString("】")
	b.WriteString(kana)
	if ext != "" {
		b.WriteString(" 内線番号 : ")
		b.WriteString(ext)
	}
	b.WriteString(" E-Mail : ")
	b.WriteString(email)
	return b.String()
}
