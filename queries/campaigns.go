package queries

const GetCampaigns = `
  query GetCampaigns($filter: CampaignsFilterInput, $order: CampaignsOrderByInput, $limit: Int, $offset: Int) {
    campaigns(filter: $filter, order: $order, limit: $limit, offset: $offset) {` + PageInfoFields + `
      edges {` + CampaignFields + `
      }
    }
  }
`

const GetCampaignsWithAdsets = `
  query GetCampaignsWithAdsets($accountId: Long!, $campaignLimit: Int, $adsetLimit: Int) {
    accounts(filter: { id: { eq: $accountId } }) {
      edges {
        campaigns(limit: $campaignLimit) {
          edges {` + CampaignFields + `
            adsets(limit: $adsetLimit) {
              edges {` + AdsetFields + `
              }
            }
          }
        }
      }
    }
  }
`

const GetCampaignByID = `
  query GetCampaignById($campaignId: Long!) {
    campaigns(filter: { id: { eq: $campaignId } }, limit: 1) {
      edges {` + CampaignFields + `
      }
    }
  }
`
