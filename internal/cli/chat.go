package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunawell/luna/internal/models"
)

var (
	chatTopic        string
	chatConversation string
)

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send a message to the assistant",
	Long: `Send one message to the assistant and print the reply.

Pass --conversation to continue an existing conversation; without it a
new conversation is started and its identifier printed.

Examples:
  luna chat "I feel really overwhelmed today"
  luna chat "what should I do next" --conversation 4f2c...
  luna chat "my period is two weeks late" --topic menstrual-health`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatTopic, "topic", "t", "", "topic tag (mental-health, relationships, menstrual-health, general-wellness)")
	chatCmd.Flags().StringVarP(&chatConversation, "conversation", "c", "", "conversation identifier to continue")
}

func runChat(cmd *cobra.Command, args []string) error {
	resp, err := api.Chat(context.Background(), models.ChatRequest{
		Message:        args[0],
		Topic:          chatTopic,
		ConversationID: chatConversation,
	})
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}

	fmt.Println(DefaultTheme.assistantStyle().Render(resp.Response))

	if len(resp.Resources) > 0 {
		fmt.Println()
		fmt.Println(DefaultTheme.titleStyle().Render("Suggested resources:"))
		for _, r := range resp.Resources {
			line := fmt.Sprintf("- %s: %s", r.Title, r.Description)
			if r.URL != "" {
				line += " (" + r.URL + ")"
			}
			fmt.Println(line)
		}
	}

	fmt.Println()
	fmt.Println(DefaultTheme.hintStyle().Render("conversation: " + resp.ConversationID))
	return nil
}
