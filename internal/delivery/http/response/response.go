package response

import (
	"errors"
	"net/http"

	"github.com/bittworld/bg-affiliate-service/internal/domain"
	"github.com/gin-gonic/gin"
)

type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

func ParamError(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Body{Error: msg})
}

// DomainError maps the core's typed errors onto HTTP statuses. Anything
// unrecognized is a 500; domain errors must stay loud, never swallowed.
func DomainError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrTreeNotFound),
		errors.Is(err, domain.ErrNodeNotFound),
		errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrParentNotFound),
		errors.Is(err, domain.ErrReferralCodeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrTreeExists),
		errors.Is(err, domain.ErrAlreadyInTree),
		errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNotInSameTree):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrCommissionTooHigh),
		errors.Is(err, domain.ErrCommissionBelowChild),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrInvalidAmount):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, Body{Error: err.Error()})
}
