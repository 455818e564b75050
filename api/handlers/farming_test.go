package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/farmd/api/types"
	farmingtypes "github.com/openalpha/farmd/x/farming/types"
)

func TestErrorStatus(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthorized", errorsmod.Wrap(farmingtypes.ErrUnauthorized, "not manager"), http.StatusForbidden, "unauthorized"},
		{"pool not found", farmingtypes.ErrPoolNotFound, http.StatusNotFound, "not_found"},
		{"collaborator", farmingtypes.NewCollaboratorError("transferFrom", errors.New("ERC20: transfer amount exceeds balance")), http.StatusUnprocessableEntity, "token_transfer_failed"},
		{"paused", farmingtypes.ErrContractPaused, http.StatusConflict, "rejected"},
		{"timelock", farmingtypes.ErrTimelockNotElapsed, http.StatusConflict, "rejected"},
		{"investor lock", farmingtypes.ErrInvestorLockActive, http.StatusConflict, "rejected"},
		{"overflow", farmingtypes.ErrRewardOverflow, http.StatusInternalServerError, "internal_error"},
		{"plain", fmt.Errorf("bad"), http.StatusBadRequest, "invalid_request"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := errorStatus(tc.err)
			require.Equal(t, tc.status, status)
			require.Equal(t, tc.code, code)
		})
	}
}

func TestTxHandler(t *testing.T) {
	sender := sdk.AccAddress(bytes.Repeat([]byte{1}, 20)).String()

	var delivered *farmingtypes.MsgClaimReward
	handler := txHandler(func(_ context.Context, msg *farmingtypes.MsgClaimReward) (*farmingtypes.MsgClaimRewardResponse, error) {
		delivered = msg
		if msg.PoolID == 7 {
			return nil, farmingtypes.NewCollaboratorError("transferFrom", errors.New("ERC20: transfer amount exceeds balance"))
		}
		return &farmingtypes.MsgClaimRewardResponse{Reward: "42"}, nil
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/farming/claim", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		handler(rec, req)
		return rec
	}

	t.Run("delivers", func(t *testing.T) {
		rec := post(fmt.Sprintf(`{"sender":%q,"pool_id":1}`, sender))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Equal(t, uint64(1), delivered.PoolID)

		var resp farmingtypes.MsgClaimRewardResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "42", resp.Reward)
	})

	t.Run("collaborator reason", func(t *testing.T) {
		rec := post(fmt.Sprintf(`{"sender":%q,"pool_id":7}`, sender))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp types.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "ERC20: transfer amount exceeds balance", resp.Message)
	})

	t.Run("invalid body", func(t *testing.T) {
		delivered = nil
		rec := post(`{"sender":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Nil(t, delivered)
	})

	t.Run("fails validation", func(t *testing.T) {
		delivered = nil
		rec := post(`{"sender":"nope","pool_id":1}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Nil(t, delivered)
	})
}
