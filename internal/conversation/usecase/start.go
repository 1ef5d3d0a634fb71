package usecase

import (
	"context"

	"emaktab-snapshot/internal/conversation"
)

func (uc *implUseCase) StartAdd(ctx context.Context, senderID int64) (conversation.Reply, error) {
	if !uc.IsOperator(senderID) {
		return conversation.Reply{Text: conversation.MsgNotAuthorized}, conversation.ErrNotAuthorized
	}

	uc.sessions.Put(senderID, conversation.Session{
		Mode:      conversation.ModeCollectingName,
		StartedAt: uc.now(),
	})
	return conversation.Reply{Text: conversation.MsgAskName}, nil
}

func (uc *implUseCase) StartDelete(ctx context.Context, senderID int64) (conversation.Reply, error) {
	if !uc.IsOperator(senderID) {
		return conversation.Reply{Text: conversation.MsgNotAuthorized}, conversation.ErrNotAuthorized
	}

	out, err := uc.accounts.List(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "uc.StartDelete List: %v", err)
		return conversation.Reply{Text: conversation.MsgListFailed, ShowMenu: true}, err
	}
	if len(out.Accounts) == 0 {
		// Nothing to delete; drop any stale flow too.
		uc.sessions.Delete(senderID)
		return conversation.Reply{Text: conversation.MsgNoAccounts, ShowMenu: true}, nil
	}

	uc.sessions.Put(senderID, conversation.Session{
		Mode:      conversation.ModeAwaitingDeleteTarget,
		StartedAt: uc.now(),
	})
	return conversation.Reply{Text: conversation.DeletePromptText(out.Accounts)}, nil
}

func (uc *implUseCase) List(ctx context.Context, senderID int64) (conversation.Reply, error) {
	if !uc.IsOperator(senderID) {
		return conversation.Reply{Text: conversation.MsgNotAuthorized}, conversation.ErrNotAuthorized
	}

	out, err := uc.accounts.List(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "uc.List List: %v", err)
		return conversation.Reply{Text: conversation.MsgListFailed, ShowMenu: true}, err
	}
	if len(out.Accounts) == 0 {
		return conversation.Reply{Text: conversation.MsgNoAccounts, ShowMenu: true}, nil
	}
	return conversation.Reply{Text: conversation.AccountListText(out.Accounts), ShowMenu: true}, nil
}

func (uc *implUseCase) Cancel(ctx context.Context, senderID int64) (conversation.Reply, bool) {
	if _, ok := uc.sessions.Get(senderID); !ok {
		return conversation.Reply{Text: conversation.MsgNothingToCancel, ShowMenu: true}, false
	}
	uc.sessions.Delete(senderID)
	return conversation.Reply{Text: conversation.MsgCancelled, ShowMenu: true}, true
}
