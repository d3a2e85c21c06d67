package controllers

import (
	"errors"
	"net/http"

	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PaymentController struct {
	Payments *services.PaymentService
	Users    *services.UserService
}

func NewPaymentController(payments *services.PaymentService, users *services.UserService) *PaymentController {
	return &PaymentController{Payments: payments, Users: users}
}

// ListPackages is the public pricing table.
func (pc *PaymentController) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": services.MembershipPackages()})
}

type paymentInput struct {
	PackageName   string  `json:"package_name" binding:"required"`
	TransactionID string  `json:"transaction_id" binding:"required"`
	Amount        float64 `json:"amount"`
}

// ApplyPayment consumes a confirmed payment event. The charge itself happened
// out of band with the provider; this endpoint only records the result.
func (pc *PaymentController) ApplyPayment(c *gin.Context) {
	var input paymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")
	payment, err := pc.Payments.ApplyPayment(userID, input.PackageName, input.TransactionID, input.Amount)
	if err != nil {
		// A replayed event is not a failure for the caller: the upgrade
		// already took effect.
		if errors.Is(err, services.ErrAlreadyApplied) {
			c.JSON(http.StatusOK, gin.H{"message": "payment already applied"})
			return
		}
		respondError(c, err)
		return
	}

	if user, uerr := pc.Users.GetUser(userID); uerr == nil {
		if merr := utils.SendPaymentReceiptEmail(user.Email, payment.PackageName, payment.Amount, payment.TransactionID); merr != nil {
			logrus.WithField("user_id", userID).Warnf("receipt email failed: %v", merr)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "membership updated", "payment": payment})
}

func (pc *PaymentController) ListMyPayments(c *gin.Context) {
	payments, err := pc.Payments.ListUserPayments(c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
