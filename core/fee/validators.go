package fee

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/schoolhub/backend/core"
)

var (
	feeTypeTag  = "fee_type"
	feeTypeText = "feeType must be one of tuition, transport, uniform, books, activities, hostel, other"

	feeStatusTag  = "fee_status"
	feeStatusText = "status must be one of pending, paid, overdue, partial"

	positiveAmountTag  = "positiveamount"
	positiveAmountText = "amount must be greater than 0"

	paidAmountTag  = "paidamount"
	paidAmountText = "paidAmount cannot be negative"
)

// InitValidators registers the fee validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(feeTypeTag, feeTypeValidation)
	core.RegisterCustomTranslation(validate, translator, feeTypeTag, feeTypeText)

	_ = validate.RegisterValidation(feeStatusTag, feeStatusValidation)
	core.RegisterCustomTranslation(validate, translator, feeStatusTag, feeStatusText)

	validate.RegisterStructValidation(updateFeeStructValidation, UpdateFee{})
	core.RegisterCustomTranslation(validate, translator, positiveAmountTag, positiveAmountText)
	core.RegisterCustomTranslation(validate, translator, paidAmountTag, paidAmountText)
}

func (nf *NewFee) Validate(validate *validator.Validate) error {
	nf.Clean()
	return validate.Struct(nf)
}

func (uf *UpdateFee) Validate(validate *validator.Validate) error {
	uf.Clean()
	return validate.Struct(uf)
}

// Custom Validators

func feeTypeValidation(fl validator.FieldLevel) bool {
	return IsValidType(fl.Field().String())
}

func feeStatusValidation(fl validator.FieldLevel) bool {
	return IsValidStatus(fl.Field().String())
}

func IsValidType(typ string) bool {
	return contains(AllTypes, typ)
}

func IsValidStatus(status string) bool {
	return contains(AllStatuses, status)
}

// updateFeeStructValidation checks provided fields only.
func updateFeeStructValidation(sl validator.StructLevel) {
	uf, ok := sl.Current().Interface().(UpdateFee)
	if !ok {
		return
	}
	if uf.FeeType != nil && !IsValidType(*uf.FeeType) {
		sl.ReportError(*uf.FeeType, "feeType", "FeeType", feeTypeTag, "")
	}
	if uf.Amount != nil && *uf.Amount <= 0 {
		sl.ReportError(*uf.Amount, "amount", "Amount", positiveAmountTag, "")
	}
	if uf.PaidAmount != nil && *uf.PaidAmount < 0 {
		sl.ReportError(*uf.PaidAmount, "paidAmount", "PaidAmount", paidAmountTag, "")
	}
	if uf.Status != nil && !IsValidStatus(*uf.Status) {
		sl.ReportError(*uf.Status, "status", "Status", feeStatusTag, "")
	}
}

func contains(values []string, v string) bool {
	for _, val := range values {
		if v == val {
			return true
		}
	}
	return false
}
