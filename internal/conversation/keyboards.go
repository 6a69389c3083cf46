package conversation

import (
	"fmt"

	"coursebot/internal/domain"
)

// pairs lays labels out two per row
func pairs(labels []string) [][]string {
	var rows [][]string
	for i := 0; i < len(labels); i += 2 {
		end := i + 2
		if end > len(labels) {
			end = len(labels)
		}
		rows = append(rows, append([]string(nil), labels[i:end]...))
	}
	return rows
}

func mainKeyboard() [][]string {
	return [][]string{
		{labelSubjects, labelGuarantees},
		{labelPrices, labelAbout},
		{labelCart, labelContacts},
		{labelClearCart},
	}
}

func subjectsKeyboard(catalog *domain.Catalog) [][]string {
	return append(pairs(catalog.Subjects), []string{labelBackToMenu})
}

func subjectSelectedKeyboard() [][]string {
	return [][]string{
		{labelEnterVariant},
		{labelBackToSubjects, labelHome},
	}
}

func packagesKeyboard(catalog *domain.Catalog) [][]string {
	labels := make([]string, 0, len(catalog.Packages)+1)
	for _, p := range catalog.Packages {
		labels = append(labels, p.Name)
	}
	labels = append(labels, labelConsultation)
	return append(pairs(labels), []string{labelBack})
}

func consultationKeyboard() [][]string {
	return [][]string{
		{labelContactManager},
		{labelBackToPackages},
	}
}

func cartKeyboard() [][]string {
	return [][]string{
		{labelCheckout},
		{labelBackToMenu},
	}
}

func adminPanelKeyboard() [][]string {
	return [][]string{
		{labelAdminUsers, labelAdminOrders},
		{labelBroadcast, labelAdminStats},
		{labelLeavePanel},
	}
}

func adminCancelKeyboard() [][]string {
	return [][]string{{domain.CancelCommand}}
}

func adminOrdersKeyboard() [][]string {
	return [][]string{
		{labelOrdersAll, labelOrdersReady},
		{labelOrdersWorking, labelBackToPanel},
	}
}

func adminUsersKeyboard(users []domain.ActiveUser) [][]string {
	rows := make([][]string, 0, len(users)+1)
	for _, u := range users {
		rows = append(rows, []string{replyButtonLabel(u.User)})
	}
	return append(rows, []string{labelBackToPanel})
}

func replyButtonLabel(u domain.User) string {
	return fmt.Sprintf("%s %s (ID: %d)", labelReplyPrefix, u.DisplayName(), u.ID)
}
