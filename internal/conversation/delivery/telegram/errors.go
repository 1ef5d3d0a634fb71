package telegram

import "errors"

var errQueueFull = errors.New("update queue is full")
