package whatsapp

import (
	"go.mau.fi/whatsmeow/types"

	"github.com/xavierca1/zapvendas/internal/entity"
)

// PhoneToJID normalizes phone and addresses it on the default user server.
func PhoneToJID(phone string) (types.JID, error) {
	digits := entity.NormalizePhone(phone)
	if digits == "" {
		return types.JID{}, ErrInvalidPhone
	}
	return types.NewJID(digits, types.DefaultUserServer), nil
}
