package types

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterInterfaces registers the module's interface types
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgAddPool{},
		&MsgSetPool{},
		&MsgSetTokenPerBlock{},
		&MsgSetNoRewardClaimsUntil{},
		&MsgAddInvestor{},
		&MsgRemoveInvestor{},
		&MsgPause{},
		&MsgUnpause{},
		&MsgDepositTo{},
		&MsgClaimReward{},
		&MsgRequestWithdrawal{},
		&MsgWithdraw{},
	)
}

// Message types
const (
	TypeMsgAddPool                = "add_pool"
	TypeMsgSetPool                = "set_pool"
	TypeMsgSetTokenPerBlock       = "set_token_per_block"
	TypeMsgSetNoRewardClaimsUntil = "set_no_reward_claims_until"
	TypeMsgAddInvestor            = "add_investor"
	TypeMsgRemoveInvestor         = "remove_investor"
	TypeMsgPause                  = "pause"
	TypeMsgUnpause                = "unpause"
	TypeMsgDepositTo              = "deposit_to"
	TypeMsgClaimReward            = "claim_reward"
	TypeMsgRequestWithdrawal      = "request_withdrawal"
	TypeMsgWithdraw               = "withdraw"
)

// MsgServer is the farming message service. The chain has no proto Msg
// service for it yet; the REST simulator in api/ delivers Msgs through it.
type MsgServer interface {
	AddPool(context.Context, *MsgAddPool) (*MsgAddPoolResponse, error)
	SetPool(context.Context, *MsgSetPool) (*MsgSetPoolResponse, error)
	SetTokenPerBlock(context.Context, *MsgSetTokenPerBlock) (*MsgSetTokenPerBlockResponse, error)
	SetNoRewardClaimsUntil(context.Context, *MsgSetNoRewardClaimsUntil) (*MsgSetNoRewardClaimsUntilResponse, error)
	AddInvestor(context.Context, *MsgAddInvestor) (*MsgAddInvestorResponse, error)
	RemoveInvestor(context.Context, *MsgRemoveInvestor) (*MsgRemoveInvestorResponse, error)
	Pause(context.Context, *MsgPause) (*MsgPauseResponse, error)
	Unpause(context.Context, *MsgUnpause) (*MsgUnpauseResponse, error)
	DepositTo(context.Context, *MsgDepositTo) (*MsgDepositToResponse, error)
	ClaimReward(context.Context, *MsgClaimReward) (*MsgClaimRewardResponse, error)
	RequestWithdrawal(context.Context, *MsgRequestWithdrawal) (*MsgRequestWithdrawalResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgWithdrawResponse, error)
}

// RegisterMsgServer registers the MsgServer to the configurator's MsgServer.
// Messages are routed through the module's handler until proto services are generated.
func RegisterMsgServer(s interface{}, srv MsgServer) {}

// ParseAmount parses a base-unit integer amount. Zero is accepted only when allowZero is set.
func ParseAmount(s string, allowZero bool) (math.Int, error) {
	amt, ok := math.NewIntFromString(s)
	if !ok {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidAmount, "cannot parse %q", s)
	}
	if amt.IsNegative() || (!allowZero && amt.IsZero()) {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidAmount, "%s", s)
	}
	return amt, nil
}

func validateAddress(addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return errorsmod.Wrap(ErrInvalidAddress, err.Error())
	}
	return nil
}

// MsgAddPool defines the AddPool message
type MsgAddPool struct {
	Manager      string `json:"manager"`
	RewardWeight uint64 `json:"reward_weight"`
	StakeToken   string `json:"stake_token"`
	StartBlock   int64  `json:"start_block"`
	EndBlock     int64  `json:"end_block"`
	Amendable    bool   `json:"amendable"`
}

// Route implements sdk.Msg
func (msg MsgAddPool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgAddPool) Type() string { return TypeMsgAddPool }

// ValidateBasic implements sdk.Msg
func (msg MsgAddPool) ValidateBasic() error {
	if err := validateAddress(msg.Manager); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.StakeToken); err != nil {
		return errorsmod.Wrap(ErrInvalidParams, err.Error())
	}
	return ValidateWindow(msg.StartBlock, msg.EndBlock)
}

// GetSigners implements sdk.Msg
func (msg MsgAddPool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Manager)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgAddPool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgAddPool) Reset() { *msg = MsgAddPool{} }

// String implements proto.Message
func (msg MsgAddPool) String() string {
	return fmt.Sprintf("MsgAddPool{Manager: %s, StakeToken: %s, Weight: %d, Window: [%d, %d]}", msg.Manager, msg.StakeToken, msg.RewardWeight, msg.StartBlock, msg.EndBlock)
}

// XXX_MessageName returns the message type URL for MsgAddPool
func (*MsgAddPool) XXX_MessageName() string {
	return "farmd.farming.v1.MsgAddPool"
}

// MsgAddPoolResponse defines the AddPool response
type MsgAddPoolResponse struct {
	PoolID uint64 `json:"pool_id"`
}

func (msg *MsgAddPoolResponse) Reset()         { *msg = MsgAddPoolResponse{} }
func (msg *MsgAddPoolResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgAddPoolResponse) ProtoMessage()  {}

// MsgSetPool defines the SetPool message
type MsgSetPool struct {
	Manager      string `json:"manager"`
	PoolID       uint64 `json:"pool_id"`
	RewardWeight uint64 `json:"reward_weight"`
	StartBlock   int64  `json:"start_block"`
	EndBlock     int64  `json:"end_block"`
}

// Route implements sdk.Msg
func (msg MsgSetPool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetPool) Type() string { return TypeMsgSetPool }

// ValidateBasic implements sdk.Msg
func (msg MsgSetPool) ValidateBasic() error {
	if err := validateAddress(msg.Manager); err != nil {
		return err
	}
	return ValidateWindow(msg.StartBlock, msg.EndBlock)
}

// GetSigners implements sdk.Msg
func (msg MsgSetPool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Manager)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetPool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSetPool) Reset() { *msg = MsgSetPool{} }

// String implements proto.Message
func (msg MsgSetPool) String() string {
	return fmt.Sprintf("MsgSetPool{Manager: %s, PoolID: %d, Weight: %d, Window: [%d, %d]}", msg.Manager, msg.PoolID, msg.RewardWeight, msg.StartBlock, msg.EndBlock)
}

// XXX_MessageName returns the message type URL for MsgSetPool
func (*MsgSetPool) XXX_MessageName() string {
	return "farmd.farming.v1.MsgSetPool"
}

// MsgSetPoolResponse defines the SetPool response
type MsgSetPoolResponse struct{}

func (msg *MsgSetPoolResponse) Reset()         { *msg = MsgSetPoolResponse{} }
func (msg *MsgSetPoolResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgSetPoolResponse) ProtoMessage()  {}

// MsgSetTokenPerBlock defines the SetTokenPerBlock message
type MsgSetTokenPerBlock struct {
	Manager        string `json:"manager"`
	TokensPerBlock string `json:"tokens_per_block"`
}

// Route implements sdk.Msg
func (msg MsgSetTokenPerBlock) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetTokenPerBlock) Type() string { return TypeMsgSetTokenPerBlock }

// ValidateBasic implements sdk.Msg
func (msg MsgSetTokenPerBlock) ValidateBasic() error {
	if err := validateAddress(msg.Manager); err != nil {
		return err
	}
	_, err := ParseAmount(msg.TokensPerBlock, true)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgSetTokenPerBlock) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Manager)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetTokenPerBlock) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSetTokenPerBlock) Reset() { *msg = MsgSetTokenPerBlock{} }

// String implements proto.Message
func (msg MsgSetTokenPerBlock) String() string {
	return fmt.Sprintf("MsgSetTokenPerBlock{Manager: %s, TokensPerBlock: %s}", msg.Manager, msg.TokensPerBlock)
}

// XXX_MessageName returns the message type URL for MsgSetTokenPerBlock
func (*MsgSetTokenPerBlock) XXX_MessageName() string {
	return "farmd.farming.v1.MsgSetTokenPerBlock"
}

// MsgSetTokenPerBlockResponse defines the SetTokenPerBlock response
type MsgSetTokenPerBlockResponse struct{}

func (msg *MsgSetTokenPerBlockResponse) Reset()         { *msg = MsgSetTokenPerBlockResponse{} }
func (msg *MsgSetTokenPerBlockResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgSetTokenPerBlockResponse) ProtoMessage()  {}

// MsgSetNoRewardClaimsUntil defines the SetNoRewardClaimsUntil message
type MsgSetNoRewardClaimsUntil struct {
	Manager   string `json:"manager"`
	Timestamp int64  `json:"timestamp"`
}

// Route implements sdk.Msg
func (msg MsgSetNoRewardClaimsUntil) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetNoRewardClaimsUntil) Type() string { return TypeMsgSetNoRewardClaimsUntil }

// ValidateBasic implements sdk.Msg
func (msg MsgSetNoRewardClaimsUntil) ValidateBasic() error {
	if err := validateAddress(msg.Manager); err != nil {
		return err
	}
	if msg.Timestamp < 0 {
		return errorsmod.Wrap(ErrInvalidParams, "negative timestamp")
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSetNoRewardClaimsUntil) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Manager)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetNoRewardClaimsUntil) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgSetNoRewardClaimsUntil) Reset() { *msg = MsgSetNoRewardClaimsUntil{} }

// String implements proto.Message
func (msg MsgSetNoRewardClaimsUntil) String() string {
	return fmt.Sprintf("MsgSetNoRewardClaimsUntil{Manager: %s, Timestamp: %d}", msg.Manager, msg.Timestamp)
}

// XXX_MessageName returns the message type URL for MsgSetNoRewardClaimsUntil
func (*MsgSetNoRewardClaimsUntil) XXX_MessageName() string {
	return "farmd.farming.v1.MsgSetNoRewardClaimsUntil"
}

// MsgSetNoRewardClaimsUntilResponse defines the SetNoRewardClaimsUntil response
type MsgSetNoRewardClaimsUntilResponse struct{}

func (msg *MsgSetNoRewardClaimsUntilResponse) Reset()         { *msg = MsgSetNoRewardClaimsUntilResponse{} }
func (msg *MsgSetNoRewardClaimsUntilResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgSetNoRewardClaimsUntilResponse) ProtoMessage()  {}

// MsgAddInvestor defines the AddInvestor message
type MsgAddInvestor struct {
	Manager  string `json:"manager"`
	Investor string `json:"investor"`
}

// Route implements sdk.Msg
func (msg MsgAddInvestor) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgAddInvestor) Type() string { return TypeMsgAddInvestor }

// ValidateBasic implements sdk.Msg
func (msg MsgAddInvestor) ValidateBasic() error {
	if err := validateAddress(msg.Manager); err != nil {
		return err
	}
	return validateAddress(msg.Investor)
}

// GetSigners implements sdk.Msg
func (msg MsgAddInvestor) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Manager)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgAddInvestor) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgAddInvestor) Reset() { *msg = MsgAddInvestor{} }

// String implements proto.Message
func (msg MsgAddInvestor) String() string {
	return fmt.Sprintf("MsgAddInvestor{Manager: %s, Investor: %s}", msg.Manager, msg.Investor)
}

// XXX_MessageName returns the message type URL for MsgAddInvestor
func (*MsgAddInvestor) XXX_MessageName() string {
	return "farmd.farming.v1.MsgAddInvestor"
}

// MsgAddInvestorResponse defines the AddInvestor response
type MsgAddInvestorResponse struct{}

func (msg *MsgAddInvestorResponse) Reset()         { *msg = MsgAddInvestorResponse{} }
func (msg *MsgAddInvestorResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgAddInvestorResponse) ProtoMessage()  {}

// MsgRemoveInvestor defines the RemoveInvestor message
type MsgRemoveInvestor struct {
	Manager  string `json:"manager"`
	Investor string `json:"investor"`
}

// Route implements sdk.Msg
func (msg MsgRemoveInvestor) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRemoveInvestor) Type() string { return TypeMsgRemoveInvestor }

// ValidateBasic implements sdk.Msg
func (msg MsgRemoveInvestor) ValidateBasic() error {
	if err := validateAddress(msg.Manager); err != nil {
		return err
	}
	return validateAddress(msg.Investor)
}

// GetSigners implements sdk.Msg
func (msg MsgRemoveInvestor) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Manager)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgRemoveInvestor) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgRemoveInvestor) Reset() { *msg = MsgRemoveInvestor{} }

// String implements proto.Message
func (msg MsgRemoveInvestor) String() string {
	return fmt.Sprintf("MsgRemoveInvestor{Manager: %s, Investor: %s}", msg.Manager, msg.Investor)
}

// XXX_MessageName returns the message type URL for MsgRemoveInvestor
func (*MsgRemoveInvestor) XXX_MessageName() string {
	return "farmd.farming.v1.MsgRemoveInvestor"
}

// MsgRemoveInvestorResponse defines the RemoveInvestor response
type MsgRemoveInvestorResponse struct{}

func (msg *MsgRemoveInvestorResponse) Reset()         { *msg = MsgRemoveInvestorResponse{} }
func (msg *MsgRemoveInvestorResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgRemoveInvestorResponse) ProtoMessage()  {}

// MsgPause defines the Pause message
type MsgPause struct {
	Admin string `json:"admin"`
}

// Route implements sdk.Msg
func (msg MsgPause) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgPause) Type() string { return TypeMsgPause }

// ValidateBasic implements sdk.Msg
func (msg MsgPause) ValidateBasic() error {
	if err := validateAddress(msg.Admin); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgPause) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Admin)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgPause) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgPause) Reset() { *msg = MsgPause{} }

// String implements proto.Message
func (msg MsgPause) String() string {
	return fmt.Sprintf("MsgPause{Admin: %s}", msg.Admin)
}

// XXX_MessageName returns the message type URL for MsgPause
func (*MsgPause) XXX_MessageName() string {
	return "farmd.farming.v1.MsgPause"
}

// MsgPauseResponse defines the Pause response
type MsgPauseResponse struct{}

func (msg *MsgPauseResponse) Reset()         { *msg = MsgPauseResponse{} }
func (msg *MsgPauseResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgPauseResponse) ProtoMessage()  {}

// MsgUnpause defines the Unpause message
type MsgUnpause struct {
	Admin string `json:"admin"`
}

// Route implements sdk.Msg
func (msg MsgUnpause) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUnpause) Type() string { return TypeMsgUnpause }

// ValidateBasic implements sdk.Msg
func (msg MsgUnpause) ValidateBasic() error {
	if err := validateAddress(msg.Admin); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgUnpause) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Admin)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgUnpause) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgUnpause) Reset() { *msg = MsgUnpause{} }

// String implements proto.Message
func (msg MsgUnpause) String() string {
	return fmt.Sprintf("MsgUnpause{Admin: %s}", msg.Admin)
}

// XXX_MessageName returns the message type URL for MsgUnpause
func (*MsgUnpause) XXX_MessageName() string {
	return "farmd.farming.v1.MsgUnpause"
}

// MsgUnpauseResponse defines the Unpause response
type MsgUnpauseResponse struct{}

func (msg *MsgUnpauseResponse) Reset()         { *msg = MsgUnpauseResponse{} }
func (msg *MsgUnpauseResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgUnpauseResponse) ProtoMessage()  {}

// MsgDepositTo defines the DepositTo message
type MsgDepositTo struct {
	Sender    string `json:"sender"`
	PoolID    uint64 `json:"pool_id"`
	Amount    string `json:"amount"`
	Recipient string `json:"recipient"`
}

// Route implements sdk.Msg
func (msg MsgDepositTo) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgDepositTo) Type() string { return TypeMsgDepositTo }

// ValidateBasic implements sdk.Msg
func (msg MsgDepositTo) ValidateBasic() error {
	if err := validateAddress(msg.Sender); err != nil {
		return err
	}
	if _, err := ParseAmount(msg.Amount, false); err != nil {
		return err
	}
	return validateAddress(msg.Recipient)
}

// GetSigners implements sdk.Msg
func (msg MsgDepositTo) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgDepositTo) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgDepositTo) Reset() { *msg = MsgDepositTo{} }

// String implements proto.Message
func (msg MsgDepositTo) String() string {
	return fmt.Sprintf("MsgDepositTo{Sender: %s, PoolID: %d, Amount: %s, Recipient: %s}", msg.Sender, msg.PoolID, msg.Amount, msg.Recipient)
}

// XXX_MessageName returns the message type URL for MsgDepositTo
func (*MsgDepositTo) XXX_MessageName() string {
	return "farmd.farming.v1.MsgDepositTo"
}

// MsgDepositToResponse defines the DepositTo response
type MsgDepositToResponse struct {
	Deposited  string `json:"deposited"`
	RewardPaid string `json:"reward_paid"`
}

func (msg *MsgDepositToResponse) Reset()         { *msg = MsgDepositToResponse{} }
func (msg *MsgDepositToResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgDepositToResponse) ProtoMessage()  {}

// MsgClaimReward defines the ClaimReward message
type MsgClaimReward struct {
	Sender string `json:"sender"`
	PoolID uint64 `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgClaimReward) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClaimReward) Type() string { return TypeMsgClaimReward }

// ValidateBasic implements sdk.Msg
func (msg MsgClaimReward) ValidateBasic() error {
	if err := validateAddress(msg.Sender); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgClaimReward) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgClaimReward) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgClaimReward) Reset() { *msg = MsgClaimReward{} }

// String implements proto.Message
func (msg MsgClaimReward) String() string {
	return fmt.Sprintf("MsgClaimReward{Sender: %s, PoolID: %d}", msg.Sender, msg.PoolID)
}

// XXX_MessageName returns the message type URL for MsgClaimReward
func (*MsgClaimReward) XXX_MessageName() string {
	return "farmd.farming.v1.MsgClaimReward"
}

// MsgClaimRewardResponse defines the ClaimReward response
type MsgClaimRewardResponse struct {
	Reward string `json:"reward"`
}

func (msg *MsgClaimRewardResponse) Reset()         { *msg = MsgClaimRewardResponse{} }
func (msg *MsgClaimRewardResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgClaimRewardResponse) ProtoMessage()  {}

// MsgRequestWithdrawal defines the RequestWithdrawal message
type MsgRequestWithdrawal struct {
	Sender string `json:"sender"`
	PoolID uint64 `json:"pool_id"`
}

// Route implements sdk.Msg
func (msg MsgRequestWithdrawal) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRequestWithdrawal) Type() string { return TypeMsgRequestWithdrawal }

// ValidateBasic implements sdk.Msg
func (msg MsgRequestWithdrawal) ValidateBasic() error {
	if err := validateAddress(msg.Sender); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgRequestWithdrawal) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgRequestWithdrawal) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgRequestWithdrawal) Reset() { *msg = MsgRequestWithdrawal{} }

// String implements proto.Message
func (msg MsgRequestWithdrawal) String() string {
	return fmt.Sprintf("MsgRequestWithdrawal{Sender: %s, PoolID: %d}", msg.Sender, msg.PoolID)
}

// XXX_MessageName returns the message type URL for MsgRequestWithdrawal
func (*MsgRequestWithdrawal) XXX_MessageName() string {
	return "farmd.farming.v1.MsgRequestWithdrawal"
}

// MsgRequestWithdrawalResponse defines the RequestWithdrawal response
type MsgRequestWithdrawalResponse struct {
	RequestedAt int64 `json:"requested_at"`
	ActiveAt    int64 `json:"active_at"`
	ExpiresAt   int64 `json:"expires_at"`
}

func (msg *MsgRequestWithdrawalResponse) Reset()         { *msg = MsgRequestWithdrawalResponse{} }
func (msg *MsgRequestWithdrawalResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgRequestWithdrawalResponse) ProtoMessage()  {}

// MsgWithdraw defines the Withdraw message
type MsgWithdraw struct {
	Sender string `json:"sender"`
	PoolID uint64 `json:"pool_id"`
	Amount string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgWithdraw) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgWithdraw) Type() string { return TypeMsgWithdraw }

// ValidateBasic implements sdk.Msg
func (msg MsgWithdraw) ValidateBasic() error {
	if err := validateAddress(msg.Sender); err != nil {
		return err
	}
	_, err := ParseAmount(msg.Amount, false)
	return err
}

// GetSigners implements sdk.Msg
func (msg MsgWithdraw) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Sender)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgWithdraw) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgWithdraw) Reset() { *msg = MsgWithdraw{} }

// String implements proto.Message
func (msg MsgWithdraw) String() string {
	return fmt.Sprintf("MsgWithdraw{Sender: %s, PoolID: %d, Amount: %s}", msg.Sender, msg.PoolID, msg.Amount)
}

// XXX_MessageName returns the message type URL for MsgWithdraw
func (*MsgWithdraw) XXX_MessageName() string {
	return "farmd.farming.v1.MsgWithdraw"
}

// MsgWithdrawResponse defines the Withdraw response
type MsgWithdrawResponse struct {
	Remaining  string `json:"remaining"`
	RewardPaid string `json:"reward_paid"`
}

func (msg *MsgWithdrawResponse) Reset()         { *msg = MsgWithdrawResponse{} }
func (msg *MsgWithdrawResponse) String() string { return fmt.Sprintf("%+v", *msg) }
func (msg *MsgWithdrawResponse) ProtoMessage()  {}
