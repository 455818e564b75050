package types

// Event types
const (
	EventTypePoolAdded           = "farming_pool_added"
	EventTypePoolAmended         = "farming_pool_amended"
	EventTypeDeposit             = "farming_deposit"
	EventTypeClaim               = "farming_claim"
	EventTypeWithdrawalRequested = "farming_withdrawal_requested"
	EventTypeWithdraw            = "farming_withdraw"
	EventTypeRewardPaid          = "farming_reward_paid"
	EventTypeParamsUpdated       = "farming_params_updated"
	EventTypeInvestorAdded       = "farming_investor_added"
	EventTypeInvestorRemoved     = "farming_investor_removed"
	EventTypePaused              = "Paused"
	EventTypeUnpaused            = "Unpaused"
	EventTypeEpoch               = "farming_epoch"
)

// Event attributes
const (
	AttributeKeyPoolID       = "pool_id"
	AttributeKeyAccount      = "account"
	AttributeKeyRecipient    = "recipient"
	AttributeKeyAmount       = "amount"
	AttributeKeyReward       = "reward"
	AttributeKeyStakeToken   = "stake_token"
	AttributeKeyRewardWeight = "reward_weight"
	AttributeKeyStartBlock   = "start_block"
	AttributeKeyEndBlock     = "end_block"
	AttributeKeyRequestedAt  = "requested_at"
	AttributeKeyParam        = "param"
	AttributeKeyValue        = "value"
	AttributeKeyBlockHeight  = "block_height"
	AttributeKeyTotalStaked  = "total_staked"
)
