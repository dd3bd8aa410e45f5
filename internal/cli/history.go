package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunawell/luna/internal/models"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past conversations, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var showCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Print a conversation transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <conversation-id>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all conversations",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func runHistory(cmd *cobra.Command, args []string) error {
	convs, err := api.ListConversations(context.Background())
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}

	if len(convs) == 0 {
		fmt.Println("No conversations yet.")
		return nil
	}

	for _, conv := range convs {
		title := conv.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s  %s\n", DefaultTheme.titleStyle().Render(title),
			DefaultTheme.hintStyle().Render("["+conv.Topic+"]"))
		fmt.Printf("  %s · %d messages · updated %s\n",
			conv.ID, len(conv.Messages), conv.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	conv, err := api.GetConversation(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("get conversation: %w", err)
	}

	fmt.Println(DefaultTheme.titleStyle().Render(conv.Title))
	fmt.Println(DefaultTheme.hintStyle().Render("topic: " + conv.Topic))
	fmt.Println()

	for _, msg := range conv.Messages {
		if msg.Role == models.RoleAssistant {
			fmt.Println(DefaultTheme.assistantStyle().Render("luna: " + msg.Content))
		} else {
			fmt.Println("you:  " + msg.Content)
		}
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := api.DeleteConversation(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	fmt.Println("Deleted.")
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	if err := api.ClearConversations(context.Background()); err != nil {
		return fmt.Errorf("clear conversations: %w", err)
	}
	fmt.Println("All conversations deleted.")
	return nil
}
