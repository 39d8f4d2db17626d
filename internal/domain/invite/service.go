package invite

import "context"

type InviteService interface {
	Create(ctx context.Context, inviter Inviter, req CreateInviteRequest) (CreateInviteResponse, error)
	// GetDetails fails like Accept does for unknown, expired or used codes.
	GetDetails(ctx context.Context, code string) (InviteDetailsResponse, error)
	Accept(ctx context.Context, code string, acceptor Acceptor) (AcceptInviteResponse, error)
	List(ctx context.Context, userID, email string) (InviteListResponse, error)
}
