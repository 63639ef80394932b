package apierrors

const (
	MsgFailListTodos        = "errorListTodos"
	MsgFailListDeletedTodos = "errorListDeletedTodos"
	MsgFailCreateTodo       = "failCreateTodo"
	MsgFailUpdateTodo       = "failUpdateTodo"
	MsgFailRemoveTodo       = "failRemoveTodo"
	MsgFailRestoreTodo      = "failRestoreTodo"
	MsgInvalidTodoID        = "invalidTodoID"
	MsgInvalidTodoPayload   = "invalidTodoPayload"
	MsgInvalidTodoTitle     = "invalidTodoTitle"
	MsgInvalidStatusFilter  = "invalidStatusFilter"
	MsgTodoNotFound         = "todoNotFound"
	MsgUnexpectedError      = "unexpectedError"
)

// Notification messages shown by clients.
const (
	MsgTodoCreated      = "todoCreated"
	MsgTodoTitleUpdated = "todoTitleUpdated"
	MsgTodoRestored     = "todoRestored"
	MsgTodoDeleted      = "todoDeleted"
	MsgUndoAction       = "undoAction"
)
