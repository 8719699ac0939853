package repositories

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mama165/sdk-go/database"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
)

// InspectMapper renders one stored record for the badger inspector.
func InspectMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	row.Type, row.Detail = Describe(key, val)
	return row
}

// Describe names the record kind behind key and summarises its value.
func Describe(key string, val []byte) (string, string) {
	switch {
	case strings.HasPrefix(key, userPrefix):
		var u domain.User
		if err := json.Unmarshal(val, &u); err != nil {
			return "USER", "unreadable"
		}
		return "USER", fmt.Sprintf("%s online=%t lang=%s", u.Username, u.IsOnline, u.PreferredLanguage)
	case strings.HasPrefix(key, privatePairPrefix):
		return "PAIR", string(val)
	case strings.HasPrefix(key, privatePrefix):
		var c domain.PrivateChat
		if err := json.Unmarshal(val, &c); err != nil {
			return "PRIVATE", "unreadable"
		}
		return "PRIVATE", c.SenderEmail + " <-> " + c.ReceiverEmail
	case strings.HasPrefix(key, groupMemberPrefix):
		var p domain.GroupParticipant
		if err := json.Unmarshal(val, &p); err != nil {
			return "MEMBER", "unreadable"
		}
		return "MEMBER", fmt.Sprintf("%s (%s)", p.UserEmail, p.Role)
	case strings.HasPrefix(key, groupPrefix):
		var g domain.GroupChat
		if err := json.Unmarshal(val, &g); err != nil {
			return "GROUP", "unreadable"
		}
		return "GROUP", fmt.Sprintf("%s admin=%s", g.GroupName, g.AdminEmail)
	case strings.HasPrefix(key, userPrivatePrefix), strings.HasPrefix(key, userGroupPrefix):
		return "INDEX", ""
	case strings.HasPrefix(key, messagePrefix):
		var m domain.Message
		if err := json.Unmarshal(val, &m); err != nil {
			return "MESSAGE", "unreadable"
		}
		return "MESSAGE", fmt.Sprintf("[%s] %s: %s", m.Status, m.SenderEmail, m.Text())
	default:
		return "RAW", ""
	}
}
