package validators

import (
	"fmt"

	"github.com/cloud-ru/loanstore-go/internal/config"
	"github.com/cloud-ru/loanstore-go/pkg/utils"
)

// ValidatePositiveNumber проверяет, что число конечное и в допустимом диапазоне
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%s: значение не является конечным числом", name)
	}
	if value < minInclusive {
		return fmt.Errorf("%s: значение должно быть ≥ %g", name, minInclusive)
	}
	if value > maxInclusive {
		return fmt.Errorf("%s: значение слишком велико (>%g)", name, maxInclusive)
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("%s: значение должно быть в диапазоне [%d; %d]", name, minInclusive, maxInclusive)
	}
	return nil
}

// ValidateID проверяет, что идентификатор не пустой
func ValidateID(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s: значение обязательно", name)
	}
	return nil
}

// CheckAmount проверяет сумму кредита
func CheckAmount(cfg *config.Config, amount float64) error {
	return ValidatePositiveNumber("amount", amount, 0.0, cfg.MaxAmount)
}

// CheckRemainingAmount проверяет остаток долга
func CheckRemainingAmount(cfg *config.Config, remaining float64) error {
	return ValidatePositiveNumber("remaining_amount", remaining, 0.0, cfg.MaxAmount)
}

// CheckInterestPerDay проверяет дневную процентную ставку
func CheckInterestPerDay(cfg *config.Config, rate int) error {
	return ValidateIntRange("interest_per_day", rate, 0, cfg.MaxInterestPerDay)
}

// CheckPenaltyPerDay проверяет дневную ставку пени
func CheckPenaltyPerDay(cfg *config.Config, rate float64) error {
	return ValidatePositiveNumber("penalty_per_day", rate, 0.0, cfg.MaxPenaltyPerDay)
}
