package services

import "errors"

// Compile-time check that the AWS-backed client satisfies the
// interface the domain services are written against.
var _ DynamoAPI = (*DynamoService)(nil)

// Domain errors. Controllers map these to HTTP status codes;
// everything else surfaces as a generic 500.
var (
	ErrThreadNotFound    = errors.New("thread not found")
	ErrNotParticipant    = errors.New("user is not a participant of this thread")
	ErrGroupNotFound     = errors.New("group not found")
	ErrNotMember         = errors.New("user is not a member of this group")
	ErrNotAdmin          = errors.New("only a group admin can do this")
	ErrChatDisabled      = errors.New("chat is disabled for this group")
	ErrMemberMuted       = errors.New("member is not allowed to chat in this group")
	ErrRequestNotFound   = errors.New("request not found")
	ErrRequestNotPending = errors.New("request is not pending")
	ErrAlreadyFriends    = errors.New("users are already friends")
	ErrTeamNotFound      = errors.New("team not found")
	ErrTeamFull          = errors.New("team has reached its member limit")
)
