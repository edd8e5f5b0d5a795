package services

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"hoffman/internal/core"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01", fl.Field().String())
		return err == nil
	})
	return v
}

// checkForm reports any failed rule as a single user-facing message.
// Fields named in except are left for the caller to check.
func checkForm(form any, msg string, except ...string) error {
	var err error
	if len(except) > 0 {
		err = validate.StructExcept(form, except...)
	} else {
		err = validate.Struct(form)
	}
	if err != nil {
		return core.NewValidationError(msg)
	}
	return nil
}

const (
	MsgSettingsRequired = "Preencha salário e valor médio da dobra"
	MsgIncomeRequired   = "Preencha todos os campos de entrada"
	MsgExpenseRequired  = "Preencha todos os campos de saída"
	MsgDebtRequired     = "Preencha os campos obrigatórios da dívida"
	MsgFamilyCode       = "Insira o código da família"
	MsgInvalidAmount    = "Valor inválido"
	MsgInvalidDate      = "Data inválida"
	MsgInvalidMonth     = "Mês inválido"
	MsgInvalidDueDay    = "Dia de vencimento deve ser entre 1 e 31"
	MsgInvalidStatus    = "Status de dívida inválido"
	MsgInvalidRole      = "Perfil inválido"
	MsgNoPrevious       = "Não há configuração do mês anterior"
)

type SignUpForm struct {
	Email       string
	Password    string
	DisplayName string
	Role        string `validate:"oneof=admin viewer"`
}

type SettingsForm struct {
	YearMonth string `validate:"yearmonth"`
	Salary    string `validate:"notblank"`
	AvgDobra  string `validate:"notblank"`
}

type IncomeForm struct {
	Date   string `validate:"notblank"`
	Source string `validate:"notblank"`
	Amount string `validate:"notblank"`
}

type ExpenseForm struct {
	Date        string `validate:"notblank"`
	Description string `validate:"notblank"`
	Amount      string `validate:"notblank"`
}

type DebtForm struct {
	Creditor           string `validate:"notblank"`
	Type               string
	TotalAmount        string
	MonthlyInstallment string `validate:"notblank"`
	DueDay             string `validate:"notblank"`
	Status             string
}

type JoinForm struct {
	Code string `validate:"notblank"`
}

func parseAmount(s string) (core.Money, error) {
	m, err := core.ParseAmount(s)
	if err != nil {
		return core.Money{}, core.NewValidationError(MsgInvalidAmount)
	}
	return m, nil
}

func parseDate(s string) (core.Date, error) {
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, core.NewValidationError(MsgInvalidDate)
	}
	return d, nil
}
