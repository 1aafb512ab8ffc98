package rabbitmq

// NotificationsExchange — direct-обменник для всех уведомлений дашборда.
const NotificationsExchange = "notifications"

const prefetchCount = 10

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// RenewalAlerts — очередь предупреждений о продлении подписок.
var RenewalAlerts = QueueConfig{QueueName: "notifications.renewal", RoutingKey: "renewal"}

// GetNotificationQueues возвращает очереди, которые объявляют все процессы.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{RenewalAlerts}
}
