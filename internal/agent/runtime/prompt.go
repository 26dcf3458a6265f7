package runtime

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// DefaultSystemPrompt tells the model which sentences to answer with so the
// replies stay predictable across providers.
const DefaultSystemPrompt = "You are a helpful, polite assistant. You can add tasks, show tasks in a bullet list, and delete tasks. " +
	"Ensure tasks are shown only in a bullet list format (e.g., '- Task 1\n- Task 2'). " +
	"For adding a task, respond with 'I added the task [task name] for you.' " +
	"For deleting a task, respond with 'I deleted the task [task name] for you.' if successful, " +
	"or 'I couldn't find the task [task name].' if not found. " +
	"For other queries, respond concisely and appropriately based on the tool output or user input."

const (
	varSystemPrompt = "system_prompt"
	varHistory      = "history"
	varInput        = "input"
	varScratchpad   = "agent_scratchpad"
)

// newChatTemplate lays out one model call: system prompt, prior turns, the
// current input, then the tool calls and results of this turn so far.
// The system prompt is a variable so configured prompts may contain braces.
func newChatTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage("{"+varSystemPrompt+"}"),
		schema.MessagesPlaceholder(varHistory, true),
		schema.UserMessage("{"+varInput+"}"),
		schema.MessagesPlaceholder(varScratchpad, true),
	)
}
