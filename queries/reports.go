package queries

const AccountMetricsReport = `
  query AccountMetricsReport(
    $accountId: Long!,
    $startDate: Date!,
    $endDate: Date!,
    $timezone: String,
    $filters: [AccountMetricsReportRequest_FilterInput!],
    $breakdowns: [String!],
    $metrics: [String!]!
  ) {
    accountMetricsReport(
      accountId: $accountId,
      startDate: $startDate,
      endDate: $endDate,
      timezone: $timezone,
      filters: $filters,
      breakdowns: $breakdowns,
      metrics: $metrics
    ) {
      metrics {
        key
        value
      }
      breakdowns {
        key
        value
      }
    }
  }
`

const AvailableBreakdownsAndMetrics = `
  query AvailableBreakdownsAndMetrics($accountId: Long!) {
    availableBreakdownsAndMetrics(accountId: $accountId) {
      breakdowns {
        name
      }
      metrics {
        name
      }
    }
  }
`

const AsyncMetricsReport = `
  query AsyncMetricsReport(
    $metricsReportRequest: MetricsReportRequestInput!,
    $fileName: String
  ) {
    asyncMetricsReport(
      fileName: $fileName,
      metricsReportRequest: $metricsReportRequest
    ) {
      status
      reportRequestId
    }
  }
`

const GetAsyncMetricsReportDownloadURL = `
  query GetAsyncMetricsReportDownloadURL(
    $entity: EntityInput!,
    $reportRequestId: Long!
  ) {
    asyncMetricsReportDownloadURL(
      reportRequestId: $reportRequestId,
      entity: $entity
    ) {
      status
      downloadUrl
    }
  }
`
