package queries

const (
	AccountFields = `
      id
      name`

	CampaignFields = `
      id
      name`

	AdsetFields = `
      id
      name`

	PageInfoFields = `
      pageInfo {
        hasMore
      }
      totalCount`
)
