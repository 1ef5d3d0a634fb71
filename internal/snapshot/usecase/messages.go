package usecase

import "fmt"

// PhotoCaption is the caption of a delivered dashboard screenshot.
func PhotoCaption(name, login string) string {
	return fmt.Sprintf("📸 eMaktab skrinshoti\n👤 %s\n🔐 Login: %s", name, login)
}

// FailureText is sent instead of a photo when a capture fails.
func FailureText(name, login string) string {
	return fmt.Sprintf("⚠️ %s (%s) uchun skrinshot olishda xatolik yuz berdi.", name, login)
}
