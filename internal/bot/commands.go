package bot

import "github.com/disgoorg/disgo/discord"

// commands returns every global slash command the bot registers.
func commands() []discord.ApplicationCommandCreate {
	userOption := func(description string, required bool) discord.ApplicationCommandOptionUser {
		return discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: description,
			Required:    required,
		}
	}
	reasonOption := func(required bool) discord.ApplicationCommandOptionString {
		return discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "Why the action is being taken",
			Required:    required,
		}
	}
	durationOption := discord.ApplicationCommandOptionString{
		Name:        "duration",
		Description: "How long the action lasts, like 10d or 1y2mo (omit for permanent)",
	}
	idOption := func(required bool) discord.ApplicationCommandOptionString {
		return discord.ApplicationCommandOptionString{
			Name:        "id",
			Description: "Action record UUID",
			Required:    required,
		}
	}
	permissionOption := discord.ApplicationCommandOptionString{
		Name:        "permission",
		Description: "Permission name, like moderation.strike",
		Required:    true,
	}

	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        "strike",
			Description: "Record a strike against a member",
			Options: []discord.ApplicationCommandOption{
				userOption("Member to strike", true),
				reasonOption(true),
				durationOption,
			},
		},
		discord.SlashCommandCreate{
			Name:        "mute",
			Description: "Mute a member using the configured mute role",
			Options: []discord.ApplicationCommandOption{
				userOption("Member to mute", true),
				reasonOption(true),
				durationOption,
			},
		},
		discord.SlashCommandCreate{
			Name:        "unmute",
			Description: "Remove the mute role from a member",
			Options: []discord.ApplicationCommandOption{
				userOption("Member to unmute", true),
				reasonOption(false),
			},
		},
		discord.SlashCommandCreate{
			Name:        "kick",
			Description: "Kick a member from the server",
			Options: []discord.ApplicationCommandOption{
				userOption("Member to kick", true),
				reasonOption(true),
			},
		},
		discord.SlashCommandCreate{
			Name:        "ban",
			Description: "Ban a member from the server",
			Options: []discord.ApplicationCommandOption{
				userOption("Member to ban", true),
				reasonOption(true),
				durationOption,
			},
		},
		discord.SlashCommandCreate{
			Name:        "unban",
			Description: "Lift a member's ban",
			Options: []discord.ApplicationCommandOption{
				userOption("User to unban", true),
				reasonOption(false),
			},
		},
		discord.SlashCommandCreate{
			Name:        "search",
			Description: "Look up moderation records",
			Options: []discord.ApplicationCommandOption{
				userOption("Member to look up (defaults to yourself)", false),
				discord.ApplicationCommandOptionBool{
					Name:        "expired",
					Description: "Include expired records",
				},
				idOption(false),
			},
		},
		discord.SlashCommandCreate{
			Name:        "remove",
			Description: "Delete an action record entirely",
			Options: []discord.ApplicationCommandOption{
				idOption(true),
			},
		},
		discord.SlashCommandCreate{
			Name:        "expire",
			Description: "Mark an action record as no longer active",
			Options: []discord.ApplicationCommandOption{
				idOption(true),
			},
		},
		discord.SlashCommandCreate{
			Name:        "duration",
			Description: "Correct the duration of an action record",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "duration",
					Description: "New duration, like 10d (tokenless input means permanent)",
					Required:    true,
				},
				idOption(false),
			},
		},
		discord.SlashCommandCreate{
			Name:        "reason",
			Description: "Correct the reason of an action record",
			Options: []discord.ApplicationCommandOption{
				reasonOption(true),
				idOption(false),
			},
		},
		discord.SlashCommandCreate{
			Name:        "permissions",
			Description: "Manage stored permission grants",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionSubCommandGroup{
					Name:        "user",
					Description: "Manage a member's grants",
					Options: []discord.ApplicationCommandOptionSubCommand{
						{
							Name:        "add",
							Description: "Grant a permission to a member",
							Options: []discord.ApplicationCommandOption{
								userOption("Member to grant to", true),
								permissionOption,
							},
						},
						{
							Name:        "remove",
							Description: "Revoke a permission from a member",
							Options: []discord.ApplicationCommandOption{
								userOption("Member to revoke from", true),
								permissionOption,
							},
						},
						{
							Name:        "view",
							Description: "View a member's grants",
							Options: []discord.ApplicationCommandOption{
								userOption("Member to view", true),
							},
						},
					},
				},
				discord.ApplicationCommandOptionSubCommandGroup{
					Name:        "role",
					Description: "Manage a role's grants",
					Options: []discord.ApplicationCommandOptionSubCommand{
						{
							Name:        "add",
							Description: "Grant a permission to a role",
							Options: []discord.ApplicationCommandOption{
								discord.ApplicationCommandOptionRole{
									Name:        "role",
									Description: "Role to grant to",
									Required:    true,
								},
								permissionOption,
							},
						},
						{
							Name:        "remove",
							Description: "Revoke a permission from a role",
							Options: []discord.ApplicationCommandOption{
								discord.ApplicationCommandOptionRole{
									Name:        "role",
									Description: "Role to revoke from",
									Required:    true,
								},
								permissionOption,
							},
						},
						{
							Name:        "view",
							Description: "View a role's grants",
							Options: []discord.ApplicationCommandOption{
								discord.ApplicationCommandOptionRole{
									Name:        "role",
									Description: "Role to view",
									Required:    true,
								},
							},
						},
					},
				},
				discord.ApplicationCommandOptionSubCommand{
					Name:        "list",
					Description: "List every grantable permission",
				},
			},
		},
	}
}
