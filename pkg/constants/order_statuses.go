package constants

// --- СТАТУСЫ ЗАЯВОК (совпадают со значениями в колонке orders.status) ---
const (
	StatusQueued           = "NA_FILA"
	StatusAwaitingClient   = "AGUARDANDO_CLIENTE"
	StatusInProduction     = "EM_PRODUCAO"
	StatusAwaitingPartner  = "AGUARDANDO_PARCEIRO"
	StatusAwaitingApproval = "AGUARDANDO_APROVACAO"
	StatusRefused          = "RECUSADO"
	StatusFinalized        = "FINALIZADO"
)

var AllStatuses = []string{
	StatusQueued,
	StatusAwaitingClient,
	StatusInProduction,
	StatusAwaitingPartner,
	StatusAwaitingApproval,
	StatusRefused,
	StatusFinalized,
}

// Подписи для писем и отчётов.
var StatusLabels = map[string]string{
	StatusQueued:           "Na fila",
	StatusAwaitingClient:   "Aguardando cliente",
	StatusInProduction:     "Em produção",
	StatusAwaitingPartner:  "Aguardando parceiro",
	StatusAwaitingApproval: "Aguardando aprovação",
	StatusRefused:          "Recusado",
	StatusFinalized:        "Finalizado",
}

func IsValidStatus(code string) bool {
	_, ok := StatusLabels[code]
	return ok
}

func StatusLabel(code string) string {
	if label, ok := StatusLabels[code]; ok {
		return label
	}
	return code
}

// Статусы, в которых таймер запускать нельзя.
var TimerLockedStatuses = []string{
	StatusFinalized,
	StatusAwaitingApproval,
	StatusRefused,
}

func IsTimerLocked(code string) bool {
	for _, s := range TimerLockedStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// --- ДЕЙСТВИЯ ТАЙМЕРА ---
const (
	TimerStart = "start"
	TimerPause = "pause"
)

// --- РОЛИ ---
const (
	RoleAdmin   = "admin"
	RolePartner = "partner"
)

// --- ТИПЫ УВЕДОМЛЕНИЙ ---
const (
	NotificationStatusChanged = "STATUS_CHANGED"
	NotificationApproved      = "APPROVED"
	NotificationRefused       = "REFUSED"
	NotificationNewSubmission = "NEW_SUBMISSION"
)

// OrderNumberWidth - минимальная ширина номера заявки, не предел.
const OrderNumberWidth = 6
