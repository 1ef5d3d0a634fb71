package usecase

import (
	"context"
	"errors"
	"strings"

	"emaktab-snapshot/internal/account"
	"emaktab-snapshot/internal/conversation"
)

// Advance moves the sender's flow one step. Whitespace-only input keeps the
// current step and asks again.
func (uc *implUseCase) Advance(ctx context.Context, senderID int64, text string) (conversation.Reply, bool, error) {
	if !uc.IsOperator(senderID) {
		return conversation.Reply{}, false, nil
	}
	sess, ok := uc.sessions.Get(senderID)
	if !ok {
		return conversation.Reply{}, false, nil
	}

	if strings.TrimSpace(text) == "" {
		return conversation.Reply{Text: conversation.MsgEmptyInput}, true, nil
	}

	switch sess.Mode {
	case conversation.ModeCollectingName:
		sess.Draft.Name = strings.TrimSpace(text)
		sess.Mode = conversation.ModeCollectingLogin
		uc.sessions.Put(senderID, sess)
		return conversation.Reply{Text: conversation.MsgAskLogin}, true, nil

	case conversation.ModeCollectingLogin:
		sess.Draft.Login = strings.TrimSpace(text)
		sess.Mode = conversation.ModeCollectingPassword
		uc.sessions.Put(senderID, sess)
		return conversation.Reply{Text: conversation.MsgAskPassword}, true, nil

	case conversation.ModeCollectingPassword:
		defer uc.sessions.Delete(senderID)
		reply, err := uc.commit(ctx, sess.Draft, text)
		return reply, true, err

	case conversation.ModeAwaitingDeleteTarget:
		defer uc.sessions.Delete(senderID)
		reply, err := uc.deleteTarget(ctx, strings.TrimSpace(text))
		return reply, true, err

	default:
		uc.l.Warnf(ctx, "uc.Advance unknown mode %q for %d", sess.Mode, senderID)
		uc.sessions.Delete(senderID)
		return conversation.Reply{}, false, nil
	}
}

// commit stores the drafted account. The password is kept exactly as sent.
func (uc *implUseCase) commit(ctx context.Context, draft conversation.Draft, password string) (conversation.Reply, error) {
	out, err := uc.accounts.Create(ctx, account.CreateInput{
		Name:     draft.Name,
		Login:    draft.Login,
		Password: password,
	})
	switch {
	case err == nil:
		return conversation.Reply{Text: conversation.AccountCreatedText(out.Account), ShowMenu: true}, nil
	case errors.Is(err, account.ErrDuplicateLogin):
		return conversation.Reply{Text: conversation.MsgDuplicateLogin, ShowMenu: true}, nil
	default:
		uc.l.Errorf(ctx, "uc.commit Create: %v", err)
		return conversation.Reply{Text: conversation.MsgSaveFailed, ShowMenu: true}, err
	}
}

func (uc *implUseCase) deleteTarget(ctx context.Context, query string) (conversation.Reply, error) {
	acc, err := uc.accounts.FindByNameOrLogin(ctx, query)
	if errors.Is(err, account.ErrNotFound) {
		return conversation.Reply{Text: conversation.MsgNotFound, ShowMenu: true}, nil
	}
	if err != nil {
		uc.l.Errorf(ctx, "uc.deleteTarget FindByNameOrLogin: %v", err)
		return conversation.Reply{Text: conversation.MsgDeleteFailed, ShowMenu: true}, err
	}

	out, err := uc.accounts.DeleteByID(ctx, acc.ID)
	if err != nil {
		uc.l.Errorf(ctx, "uc.deleteTarget DeleteByID: %v", err)
		return conversation.Reply{Text: conversation.MsgDeleteFailed, ShowMenu: true}, err
	}
	if !out.Removed {
		// Removed concurrently between lookup and delete.
		return conversation.Reply{Text: conversation.MsgNotFound, ShowMenu: true}, nil
	}
	return conversation.Reply{Text: conversation.AccountDeletedText(acc), ShowMenu: true}, nil
}
