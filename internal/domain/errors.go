package domain

import "errors"

var (
	ErrTreeNotFound         = errors.New("affiliate tree not found")
	ErrNodeNotFound         = errors.New("affiliate node not found")
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrTreeExists           = errors.New("wallet already owns an affiliate tree")
	ErrAlreadyInTree        = errors.New("wallet already belongs to an affiliate tree")
	ErrParentNotFound       = errors.New("parent node not found in tree")
	ErrReferralCodeNotFound = errors.New("referral code not found")
	ErrForbidden            = errors.New("operation not permitted for this wallet")
	ErrCommissionTooHigh    = errors.New("commission percent exceeds parent's percent")
	ErrCommissionBelowChild = errors.New("commission percent is below a direct child's percent")
	ErrInvalidRange         = errors.New("commission percent out of range")
	ErrNotInSameTree        = errors.New("wallets belong to different trees")
	ErrConflict             = errors.New("concurrent update conflict")
	ErrMaxDepthExceeded     = errors.New("ancestor chain exceeds max depth")
	ErrInvalidAmount        = errors.New("transaction amount must be positive")
	ErrAlreadyDistributed   = errors.New("order commission already distributed")
)
