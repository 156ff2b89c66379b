package contract

import "github.com/alexanderramin/grantdesk/internal/app"

type SubmissionSummary = app.SubmissionSummary

type DashboardOverview = app.DashboardOverview

type ProposalStats = app.ProposalStats

type ProposalDetail = app.ProposalDetail

type CallList = app.CallList

type ActivityPage = app.ActivityPage

type NotificationPage = app.NotificationPage
