package handlers

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"strike-bot/bot"
	"strike-bot/utils/database/strikes"
)

// SystemInfoHandler answers /bot-status with host and ledger statistics.
func SystemInfoHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	vm, _ := mem.VirtualMemory()
	hostInfo, _ := host.Info()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	ledgers, err := strikes.CountRows(b.GetDB())
	if err != nil {
		log.Printf("Error counting ledger rows for status: %v", err)
	}

	usage := 0.0
	if len(cpuPercent) > 0 {
		usage = cpuPercent[0]
	}

	embed := &discordgo.MessageEmbed{
		Title: "Bot Status",
		Color: 0x5865F2, // Discord Blurple
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Host", Value: fmt.Sprintf("%s (%s)", hostInfo.Hostname, hostInfo.Platform), Inline: true},
			{Name: "Uptime", Value: (time.Duration(hostInfo.Uptime) * time.Second).String(), Inline: true},
			{Name: "CPU", Value: fmt.Sprintf("%d cores, %.1f%%", cpuCount, usage), Inline: true},
			{Name: "System memory", Value: fmt.Sprintf("%.1f%% of %d MB", vm.UsedPercent, vm.Total/1024/1024), Inline: true},
			{Name: "Process heap", Value: fmt.Sprintf("%d MB", m.HeapAlloc/1024/1024), Inline: true},
			{Name: "Guilds", Value: fmt.Sprintf("%d", len(s.State.Guilds)), Inline: true},
			{Name: "Active ledgers", Value: fmt.Sprintf("%d", ledgers), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error sending status response: %v", err)
	}
}
