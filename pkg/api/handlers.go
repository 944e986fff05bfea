package api

import (
	"encoding/json"
	"errors"
	"github.com/tonkeeper/tongo/ton"
	"github.com/txsociety/tonbridge/pkg/bridge"
	"github.com/txsociety/tonbridge/pkg/cell"
	"github.com/txsociety/tonbridge/pkg/core"
	"log/slog"
	"math/big"
	"net/http"
)

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

type NewBurn struct {
	Owner       string `json:"owner"`
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
	QueryID     uint64 `json:"query_id"`
}

type BurnPrintable struct {
	Sent         bool    `json:"sent"`
	JettonWallet *string `json:"jetton_wallet,omitempty"`
}

type BocData struct {
	Boc string `json:"boc"`
}

type ContentData struct {
	URI string `json:"uri"`
}

type AddressData struct {
	Address *string `json:"address"`
}

func (h *Handler) burn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Body == nil {
		writeHttpError(w, http.StatusBadRequest, "empty body")
		return
	}
	var data NewBurn
	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		writeHttpError(w, http.StatusBadRequest, "invalid burn data: "+err.Error())
		return
	}
	req, err := convertNewBurn(data)
	if err != nil {
		writeHttpError(w, http.StatusBadRequest, "burn data parsing error: "+err.Error())
		return
	}
	res, err := h.service.Burn(r.Context(), req)
	if err != nil && isBurnInputError(err) {
		writeHttpError(w, http.StatusBadRequest, err.Error())
		return
	} else if err != nil {
		slog.Error("burn", "error", err)
		writeHttpError(w, http.StatusInternalServerError, core.ErrInternalServerError.Error())
		return
	}
	body := BurnPrintable{Sent: res.Sent}
	if res.JettonWallet != nil {
		wallet := res.JettonWallet.ToRaw()
		body.JettonWallet = &wallet
	}
	err = json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("encode burn", "error", err)
	}
}

func (h *Handler) submitVote(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Body == nil {
		writeHttpError(w, http.StatusBadRequest, "empty body")
		return
	}
	var data core.EthToTonPrintable
	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		writeHttpError(w, http.StatusBadRequest, "invalid event data: "+err.Error())
		return
	}
	event, err := core.ParseEthToTon(data)
	if err != nil {
		writeHttpError(w, http.StatusBadRequest, "event parsing error: "+err.Error())
		return
	}
	vote, err := h.service.SubmitVote(r.Context(), event)
	if err != nil {
		slog.Error("submit vote", "error", err)
		writeHttpError(w, http.StatusInternalServerError, core.ErrInternalServerError.Error())
		return
	}
	err = json.NewEncoder(w).Encode(core.ConvertVoteToPrintable(vote))
	if err != nil {
		slog.Error("encode vote", "error", err)
	}
}

func (h *Handler) getVote(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	queryID, ok := new(big.Int).SetString(r.PathValue("query_id"), 10)
	if !ok || queryID.Sign() < 0 {
		writeHttpError(w, http.StatusBadRequest, "invalid query id")
		return
	}
	vote, err := h.service.GetVote(r.Context(), queryID)
	if err != nil && errors.Is(err, core.ErrNotFound) {
		writeHttpError(w, http.StatusNotFound, err.Error())
		return
	} else if err != nil {
		slog.Error("get vote", "error", err)
		writeHttpError(w, http.StatusInternalServerError, core.ErrInternalServerError.Error())
		return
	}
	err = json.NewEncoder(w).Encode(core.ConvertVoteToPrintable(vote))
	if err != nil {
		slog.Error("encode vote", "error", err)
	}
}

func (h *Handler) decodeContent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	c, ok := readBoc(w, r)
	if !ok {
		return
	}
	uri, err := core.DecodeOffchainURI(c)
	if err != nil {
		writeHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = json.NewEncoder(w).Encode(ContentData{URI: uri})
	if err != nil {
		slog.Error("encode content", "error", err)
	}
}

func (h *Handler) encodeContent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Body == nil {
		writeHttpError(w, http.StatusBadRequest, "empty body")
		return
	}
	var data ContentData
	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		writeHttpError(w, http.StatusBadRequest, "invalid content data: "+err.Error())
		return
	}
	c, err := core.EncodeOffchainURI(data.URI)
	if err != nil {
		writeHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	boc, err := c.SerializeBase64()
	if err != nil {
		writeHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = json.NewEncoder(w).Encode(BocData{Boc: boc})
	if err != nil {
		slog.Error("encode content", "error", err)
	}
}

func (h *Handler) decodeAddress(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	c, ok := readBoc(w, r)
	if !ok {
		return
	}
	address, err := core.DecodeAddressFromCell(c)
	if err != nil {
		writeHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	var res AddressData
	if address != nil {
		raw := address.ToRaw()
		res.Address = &raw
	}
	err = json.NewEncoder(w).Encode(res)
	if err != nil {
		slog.Error("encode address", "error", err)
	}
}

func (h *Handler) decodeSignature(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Body == nil {
		writeHttpError(w, http.StatusBadRequest, "empty body")
		return
	}
	var data core.StackEntry
	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		writeHttpError(w, http.StatusBadRequest, "invalid stack entry: "+err.Error())
		return
	}
	signature, err := core.ParseEthSignature(data)
	if err != nil {
		writeHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = json.NewEncoder(w).Encode(signature)
	if err != nil {
		slog.Error("encode signature", "error", err)
	}
}

func RegisterHandlers(mux *http.ServeMux, h *Handler, token string) {
	mux.HandleFunc("/v1/burns", recoverMiddleware(authMiddleware(post(h.burn), token)))
	mux.HandleFunc("/v1/votes", recoverMiddleware(authMiddleware(post(h.submitVote), token)))
	mux.HandleFunc("/v1/votes/{query_id}", recoverMiddleware(authMiddleware(get(h.getVote), token)))
	mux.HandleFunc("/v1/content/decode", recoverMiddleware(post(h.decodeContent)))
	mux.HandleFunc("/v1/content/encode", recoverMiddleware(post(h.encodeContent)))
	mux.HandleFunc("/v1/addresses/decode", recoverMiddleware(post(h.decodeAddress)))
	mux.HandleFunc("/v1/signatures/decode", recoverMiddleware(post(h.decodeSignature)))
}

func readBoc(w http.ResponseWriter, r *http.Request) (*cell.Cell, bool) {
	if r.Body == nil {
		writeHttpError(w, http.StatusBadRequest, "empty body")
		return nil, false
	}
	var data BocData
	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		writeHttpError(w, http.StatusBadRequest, "invalid boc data: "+err.Error())
		return nil, false
	}
	c, err := cell.FromBocBase64(data.Boc)
	if err != nil {
		writeHttpError(w, http.StatusBadRequest, "invalid boc: "+err.Error())
		return nil, false
	}
	return c, true
}

// isBurnInputError reports errors caused by request data that can not be encoded into a burn message.
func isBurnInputError(err error) bool {
	return errors.Is(err, core.ErrInvalidAddress) ||
		errors.Is(err, cell.ErrCapacityExceeded) ||
		errors.Is(err, cell.ErrNegativeValue)
}

func convertNewBurn(data NewBurn) (bridge.BurnRequest, error) {
	owner, err := ton.ParseAccountID(data.Owner)
	if err != nil {
		return bridge.BurnRequest{}, err
	}
	amount, ok := new(big.Int).SetString(data.Amount, 10)
	if !ok {
		return bridge.BurnRequest{}, errors.New("can not parse amount string")
	}
	if amount.Sign() != 1 {
		return bridge.BurnRequest{}, errors.New("amount must be positive integer")
	}
	return bridge.BurnRequest{
		Owner:       owner,
		Destination: data.Destination,
		Amount:      amount,
		QueryID:     data.QueryID,
	}, nil
}
