package tools

// ToolName is the closed set of tool identifiers the model may request.
type ToolName string

const (
	ToolAddTask    ToolName = "add_task"
	ToolShowTasks  ToolName = "show_tasks"
	ToolDeleteTask ToolName = "delete_task"
)

// AllToolNames lists every tool in catalog order.
var AllToolNames = []ToolName{ToolAddTask, ToolShowTasks, ToolDeleteTask}

// ParseToolName maps a model-supplied name onto the enumeration.
func ParseToolName(s string) (ToolName, bool) {
	for _, n := range AllToolNames {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}

func (n ToolName) String() string {
	return string(n)
}
