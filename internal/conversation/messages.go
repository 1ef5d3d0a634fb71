package conversation

import (
	"fmt"
	"strings"

	"emaktab-snapshot/internal/account"
)

// Menu button labels. They double as command triggers.
const (
	ButtonAdd    = "➕ Add Account"
	ButtonDelete = "🗑 Delete account"
	ButtonList   = "📋 List accounts"
	ButtonRun    = "📸 Run now"
)

// Operator-facing texts.
const (
	MsgWelcome         = "Assalomu alaykum! eMaktab avto-skrinshot botiga xush kelibsiz."
	MsgHelp            = "Buyruqlar:\n/add - akkaunt qo‘shish\n/delete - akkauntni o‘chirish\n/list - akkauntlar ro‘yxati\n/run - hozir skrinshot olish\n/cancel - amalni bekor qilish"
	MsgNotAuthorized   = "❌ Sizda bu amalni bajarish huquqi yo‘q."
	MsgAskName         = "➕ Yangi akkaunt qo‘shish.\nIltimos, o‘quvchi ismini yuboring:"
	MsgAskLogin        = "🔐 Endi loginni yuboring:"
	MsgAskPassword     = "🔑 Endi parolni yuboring:"
	MsgDuplicateLogin  = "❌ Bu login bilan akkaunt allaqachon mavjud. Iltimos, boshqa login kiriting."
	MsgSaveFailed      = "❌ Akkauntni saqlashda xatolik yuz berdi."
	MsgNoAccounts      = "Bazadan hech qanday akkaunt topilmadi."
	MsgNotFound        = "❌ Bu nom yoki login bo‘yicha akkaunt topilmadi. Qaytadan urinib ko‘ring yoki /start bosing."
	MsgDeleteFailed    = "❌ Akkauntni o‘chirishda xatolik yuz berdi."
	MsgListFailed      = "❌ Akkauntlarni o‘qishda xatolik yuz berdi."
	MsgEmptyInput      = "✏️ Bo‘sh xabar qabul qilinmaydi. Iltimos, qaytadan yuboring:"
	MsgCancelled       = "❎ Amal bekor qilindi."
	MsgNothingToCancel = "Bekor qilinadigan amal yo‘q."
	MsgRunStarted      = "📸 Skrinshotlar olinmoqda..."
	MsgRunInProgress   = "⏳ Skrinshot olish allaqachon davom etmoqda."
	MsgRunFinished     = "✅ Tayyor: %d ta muvaffaqiyatli, %d ta xatolik."
	MsgRunFailed       = "❌ Skrinshot olishni boshlab bo‘lmadi."
)

// AccountCreatedText confirms a stored account.
func AccountCreatedText(acc account.Account) string {
	return fmt.Sprintf("✅ Akkaunt qo‘shildi:\n👤 %s\n🔐 Login: %s", acc.Name, acc.Login)
}

// AccountDeletedText confirms a removed account.
func AccountDeletedText(acc account.Account) string {
	return fmt.Sprintf("✅ Akkaunt o‘chirildi:\n👤 %s\n🔐 Login: %s", acc.Name, acc.Login)
}

// DeletePromptText asks which account to delete and lists the candidates.
func DeletePromptText(accounts []account.Account) string {
	return "🗑 Qaysi akkauntni o‘chirmoqchisiz?\nIsmini yoki loginini yuboring.\n\nMavjud akkauntlar:\n" + bulletList(accounts)
}

// AccountListText renders every account, one per line.
func AccountListText(accounts []account.Account) string {
	return "📋 Akkauntlar ro‘yxati:\n" + bulletList(accounts)
}

func bulletList(accounts []account.Account) string {
	lines := make([]string, 0, len(accounts))
	for _, a := range accounts {
		lines = append(lines, fmt.Sprintf("• %s (%s)", a.Name, a.Login))
	}
	return strings.Join(lines, "\n")
}
