package models

const (
	SeatingInside  = "inside"
	SeatingOutside = "outside"

	PickupYes = "yes"
	PickupNo  = "no"
)

const (
	JournalSubmitted = "submitted"
	JournalLoaded    = "loaded"
)

const (
	StepIdle       = "idle"
	StepEnterName  = "enter_name"
	StepEnterEmail = "enter_email"
	StepEnterPhone = "enter_phone"
)

const (
	ParseModeMarkdown = "Markdown"
)

const (
	// DateLayout формат даты в черновике и на сервере
	DateLayout = "2006-01-02"

	// DefaultHour, DefaultMinute вечерний слот по умолчанию (7:00 PM)
	DefaultHour   = 7
	DefaultMinute = 0

	// MinDiners, MaxDiners допустимый размер компании
	MinDiners     = 1
	MaxDiners     = 10
	DefaultDiners = 1

	// DaysInWeek количество дат в окне выбора
	DaysInWeek = 7

	// DefaultStateTTL время жизни черновика в Redis
	DefaultStateTTL = 24 * 60 * 60 // 24 часа в секундах

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений
	RateLimitWindow = 60 // 1 минута в секундах

	// DefaultHistoryLimit количество записей в /history
	DefaultHistoryLimit = 10

	// DefaultExportDays период выгрузки /export
	DefaultExportDays = 30
)

// ValidSeating reports whether s is one of the seating options.
func ValidSeating(s string) bool {
	return s == SeatingInside || s == SeatingOutside
}

// ValidPickup reports whether s is one of the pickup options.
func ValidPickup(s string) bool {
	return s == PickupYes || s == PickupNo
}
