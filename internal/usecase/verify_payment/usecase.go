package verify_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/CWS-BookingService/internal/infra/storage/booking"
	checkoutRepo "github.com/m04kA/CWS-BookingService/internal/infra/storage/checkout"
)

// Количество попыток сгенерировать уникальный код погашения
// при коллизии по уникальному индексу
const codeGenAttempts = 3

// UseCase use case для подтверждения оплаты чекаута
// Проверяет подпись шлюза, помечает чекаут оплаченным и выдаёт
// одноразовые коды доступа всем бронированиям чекаута
type UseCase struct {
	checkoutRepo CheckoutRepository
	bookingRepo  BookingRepository
	gateway      PaymentGatewayClient
	txManager    TransactionManager
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	checkoutRepo CheckoutRepository,
	bookingRepo BookingRepository,
	gateway PaymentGatewayClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		checkoutRepo: checkoutRepo,
		bookingRepo:  bookingRepo,
		gateway:      gateway,
		txManager:    txManager,
		logger:       logger,
	}
}

// Execute выполняет use case подтверждения оплаты
// Идемпотентен: повторный запрос по уже оплаченному чекауту возвращает
// текущее состояние без побочных эффектов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("VerifyPayment: user=%d, order=%s, payment=%s",
		req.UserID, req.PaymentOrderID, req.PaymentID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("VerifyPayment: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем подпись шлюза - до любых обращений к БД
	if err := uc.gateway.VerifySignature(req.PaymentOrderID, req.PaymentID, req.Signature); err != nil {
		uc.logger.Warn("VerifyPayment: signature verification failed for order=%s: %v",
			req.PaymentOrderID, err)
		return nil, ErrInvalidSignature
	}

	// Переменные для хранения результата
	var checkout *domain.Checkout
	var bookings []*domain.Booking

	// 3. Подтверждаем оплату в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем чекаут по заказу с блокировкой (FOR UPDATE)
		found, err := uc.checkoutRepo.GetByPaymentOrderID(txCtx, req.PaymentOrderID)
		if err != nil {
			if errors.Is(err, checkoutRepo.ErrCheckoutNotFound) {
				uc.logger.Warn("VerifyPayment: checkout not found for order=%s", req.PaymentOrderID)
				return ErrCheckoutNotFound
			}
			uc.logger.Error("VerifyPayment: repository error for order=%s: %v", req.PaymentOrderID, err)
			return fmt.Errorf("%w: failed to get checkout: %v", ErrInternal, err)
		}

		if found.UserID != req.UserID {
			uc.logger.Warn("VerifyPayment: user=%d is not the owner of checkout id=%d",
				req.UserID, found.ID)
			return ErrAccessDenied
		}

		// 3.2. Повторное подтверждение уже оплаченного чекаута - не ошибка
		if found.IsPaid() {
			uc.logger.Info("VerifyPayment: checkout id=%d already paid, returning current state", found.ID)
			checkout = found
			bookings, err = uc.bookingRepo.GetByCheckoutID(txCtx, found.ID)
			if err != nil {
				return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
			}
			return nil
		}

		if !found.CanBePaid() {
			uc.logger.Warn("VerifyPayment: checkout id=%d is not payable, status=%s",
				found.ID, found.Status)
			return ErrCheckoutNotPayable
		}

		// 3.3. Помечаем чекаут оплаченным
		if err := uc.checkoutRepo.MarkPaid(txCtx, found.ID, req.PaymentID); err != nil {
			uc.logger.Error("VerifyPayment: failed to mark checkout id=%d paid: %v", found.ID, err)
			return fmt.Errorf("%w: failed to mark checkout paid: %v", ErrInternal, err)
		}

		// 3.4. Подтверждаем бронирования и выдаём коды доступа
		found.Status = domain.CheckoutPaid
		paymentID := req.PaymentID
		found.PaymentID = &paymentID

		bookings, err = uc.bookingRepo.GetByCheckoutID(txCtx, found.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		for _, booking := range bookings {
			if booking.Status != domain.StatusPending {
				continue
			}

			code, err := uc.confirmWithFreshCode(txCtx, booking.ID)
			if err != nil {
				// Оплата уже принята шлюзом: ошибка здесь требует ручного разбора
				uc.logger.Error("VerifyPayment: failed to confirm booking id=%d after payment %s: %v",
					booking.ID, req.PaymentID, err)
				return fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
			}

			booking.Status = domain.StatusConfirmed
			booking.RedemptionCode = &code
		}

		checkout = found
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("VerifyPayment: successfully confirmed checkout id=%d with %d bookings",
		checkout.ID, len(bookings))

	return buildResponse(checkout, bookings), nil
}

// confirmWithFreshCode подтверждает бронирование с новым кодом погашения
// При коллизии кода по уникальному индексу пробует ещё раз
func (uc *UseCase) confirmWithFreshCode(ctx context.Context, bookingID int64) (string, error) {
	var lastErr error

	for attempt := 0; attempt < codeGenAttempts; attempt++ {
		code := uuid.NewString()

		err := uc.bookingRepo.ConfirmWithCode(ctx, bookingID, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, bookingRepo.ErrDuplicateCode) {
			return "", err
		}

		uc.logger.Warn("VerifyPayment: redemption code collision for booking id=%d, retrying", bookingID)
		lastErr = err
	}

	return "", lastErr
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.PaymentOrderID == "" {
		return fmt.Errorf("%w: paymentOrderId is required", ErrInvalidInput)
	}
	if req.PaymentID == "" {
		return fmt.Errorf("%w: paymentId is required", ErrInvalidInput)
	}
	if req.Signature == "" {
		return fmt.Errorf("%w: signature is required", ErrInvalidInput)
	}
	return nil
}

// buildResponse собирает ответ из подтверждённых сущностей
func buildResponse(checkout *domain.Checkout, bookings []*domain.Booking) *Response {
	confirmed := make([]ConfirmedBooking, len(bookings))
	for i, b := range bookings {
		line := ConfirmedBooking{
			ID:          b.ID,
			BookingDate: b.BookingDate,
			BookingType: b.BookingType,
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
			Seats:       b.Seats,
			Status:      string(b.Status),
		}
		if b.RedemptionCode != nil {
			line.RedemptionCode = *b.RedemptionCode
		}
		confirmed[i] = line
	}

	resp := &Response{
		CheckoutID: checkout.ID,
		Status:     string(checkout.Status),
		GrandTotal: checkout.GrandTotal,
		Currency:   checkout.Currency,
		Bookings:   confirmed,
	}
	if checkout.PaymentID != nil {
		resp.PaymentID = *checkout.PaymentID
	}

	return resp
}
