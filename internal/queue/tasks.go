package queue

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/brundhavanam/grocery/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
	TaskOTPDeliver         = constants.TaskOTPDeliver
)

// OrderTimeoutCancelPayload 超时取消任务载荷
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// OTPDeliverPayload 验证码下发任务载荷
type OTPDeliverPayload struct {
	Mobile string `json:"mobile"`
	Code   string `json:"code"`
}

func newJSONTask(taskType string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, body), nil
}

func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	return newJSONTask(TaskOrderTimeoutCancel, payload)
}

func NewOTPDeliverTask(payload OTPDeliverPayload) (*asynq.Task, error) {
	return newJSONTask(TaskOTPDeliver, payload)
}

// orderTimeoutTaskID 作为 asynq TaskID，一个订单只排一个超时任务
func orderTimeoutTaskID(orderID uint) string {
	return "order-timeout-cancel:" + strconv.FormatUint(uint64(orderID), 10)
}
