package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harborbank/transfer-service/internal/bank"
	"github.com/harborbank/transfer-service/internal/cqrs"
	"github.com/harborbank/transfer-service/internal/middleware"
	"github.com/harborbank/transfer-service/internal/models"
	"github.com/shopspring/decimal"
)

// TransferCommander defines the write-side operations used by TransferHandler.
type TransferCommander interface {
	Transfer(ctx context.Context, cmd cqrs.TransferCommand) (*models.TransferReceipt, error)
}

// TransferQuerier defines the read-side operations used by TransferHandler.
type TransferQuerier interface {
	GetBalance(ctx context.Context, q cqrs.GetBalanceQuery) (decimal.Decimal, error)
	GetTransferCount(ctx context.Context, q cqrs.GetTransferCountQuery) (int64, error)
}

type TransferHandler struct {
	commands TransferCommander
	queries  TransferQuerier
}

type TransferRequest struct {
	SourceAccountID      int64           `json:"sourceAccountId" validate:"required"`
	DestinationAccountID int64           `json:"destinationAccountId" validate:"required"`
	BankID               int64           `json:"bankId" validate:"required"`
	Amount               decimal.Decimal `json:"amount"`
}

// TransferResponse mirrors the shape the original API returned on success.
type TransferResponse struct {
	Date        string                  `json:"date"`
	Status      string                  `json:"status"`
	Message     string                  `json:"message"`
	Transaction *models.TransferReceipt `json:"transaction"`
}

type BalanceResponse struct {
	AccountID int64           `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

type TransferCountResponse struct {
	BankID        int64 `json:"bankId"`
	TransferCount int64 `json:"transferCount"`
}

func NewTransferHandler(commands TransferCommander, queries TransferQuerier) *TransferHandler {
	return &TransferHandler{commands: commands, queries: queries}
}

func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	receipt, err := h.commands.Transfer(c.Request.Context(), cqrs.TransferCommand{
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		BankID:               req.BankID,
		Amount:               req.Amount,
	})
	if err != nil {
		respondWithBusinessError(c, err, "Failed to complete transfer")
		return
	}

	c.JSON(http.StatusOK, TransferResponse{
		Date:        receipt.CompletedAt.Format(time.DateOnly),
		Status:      "OK",
		Message:     "Transfer completed successfully",
		Transaction: receipt,
	})
}

func (h *TransferHandler) GetBalance(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid account id")
		return
	}

	balance, err := h.queries.GetBalance(c.Request.Context(), cqrs.GetBalanceQuery{AccountID: id})
	if err != nil {
		respondWithBusinessError(c, err, "Failed to get balance")
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{AccountID: id, Balance: balance})
}

func (h *TransferHandler) GetTransferCount(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid bank id")
		return
	}

	count, err := h.queries.GetTransferCount(c.Request.Context(), cqrs.GetTransferCountQuery{BankID: id})
	if err != nil {
		respondWithBusinessError(c, err, "Failed to get transfer count")
		return
	}

	c.JSON(http.StatusOK, TransferCountResponse{BankID: id, TransferCount: count})
}

// respondWithBusinessError maps the business error taxonomy onto HTTP status
// codes. Storage failures fall through to 500 with a generic message.
func respondWithBusinessError(c *gin.Context, err error, fallback string) {
	var (
		invalidAmount     *bank.InvalidAmountError
		invalidOperation  *bank.InvalidOperationError
		notFound          *bank.NotFoundError
		insufficientFunds *bank.InsufficientFundsError
	)
	switch {
	case errors.As(err, &invalidAmount):
		middleware.RespondWithError(c, http.StatusBadRequest, invalidAmount.Error())
	case errors.As(err, &invalidOperation):
		middleware.RespondWithError(c, http.StatusBadRequest, invalidOperation.Error())
	case errors.As(err, &notFound):
		middleware.RespondWithError(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &insufficientFunds):
		middleware.RespondWithError(c, http.StatusUnprocessableEntity, insufficientFunds.Error())
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
