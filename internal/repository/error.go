package repository

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrPlaybackNotFound   = errors.New("playback record not found")
)
