// Package finance содержит расчётное ядро дашборда: график платежей по кредиту,
// оценку плоской процентной ставки, нормализацию стоимости подписок,
// учёт долгов и подсказки по подпискам.
//
// Все функции чистые: не выполняют I/O, не хранят состояние и не меняют входные данные.
// Некорректный ввод никогда не приводит к ошибке, результатом становится ноль или пустой список.
package finance
